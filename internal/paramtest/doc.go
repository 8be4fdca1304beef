// Package paramtest runs one test body over a sequence of argument tuples,
// injecting fixtures by parameter name.
//
// A test is declared with an explicit parameter list:
//
//	test := paramtest.Test{
//		Name:   "favorite_color_guess",
//		Params: []string{"guess", "my_favorite_color"},
//		Body: func(tc paramtest.TestCase, args paramtest.Args) error {
//			guess := paramtest.Arg[string](args, "guess")
//			favorite := paramtest.Arg[Color](args, "my_favorite_color")
//			return paramtest.Check(func(a *assert.Assertions) {
//				a.Equal(guess == "black", favorite.Name == guess)
//			})
//		},
//	}
//
//	report, err := paramtest.Run(ctx, t, test, nil,
//		paramtest.Parametrize("orange", "yellow", "black"))
//
// BINDING:
//
// Each declared parameter is bound from exactly one source, in priority
// order: base arguments supplied by the caller, the current parameter
// tuple, then the fixture registry. With Parametrize the variable names are
// every declared parameter that is neither a base argument nor a registered
// fixture. With ParametrizeVars("x, y", ...) the variable names are given
// explicitly and any remaining parameter must be a registered fixture.
//
// EXECUTION:
//
// Workers == 1 runs tuples in order on the calling goroutine and stops at
// the first failure. Workers > 1 runs every tuple on a bounded pool, waits
// for all of them, and returns a *FailureSet holding every failure ordered
// by tuple index. Configuration and arity problems are reported before any
// body runs.
//
// Bodies report failures by returning an error. Check bridges testify
// assertions into that contract; panics in bodies are recovered and
// reported as PANIC errors. Calling t.FailNow (or require.*) on a *testing.T
// from a parallel worker is not supported by the testing package and must
// be avoided in bodies.
package paramtest

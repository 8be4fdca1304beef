package paramtest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/testkit/internal/fixture"
)

// CacheScope selects how long fixture values live.
type CacheScope int

const (
	// ScopeProcess shares one cache across every run of the engine, so a
	// fixture computed by one test is reused by later tests until the cache
	// is cleared.
	ScopeProcess CacheScope = iota

	// ScopeRun gives each run a fresh cache over the same registry.
	ScopeRun
)

func (s CacheScope) String() string {
	switch s {
	case ScopeProcess:
		return "process"
	case ScopeRun:
		return "run"
	default:
		return fmt.Sprintf("CacheScope(%d)", int(s))
	}
}

// Engine runs parametrized tests.
//
// Thread-safety: Run may be called from multiple goroutines; runs share
// only the fixture cache (ScopeProcess), which is itself safe.
type Engine struct {
	registry *fixture.Registry
	cache    *fixture.Cache
	scope    CacheScope
	logger   *slog.Logger
	runIDs   RunIDGenerator
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCacheScope sets the fixture cache scope. Default: ScopeProcess.
func WithCacheScope(scope CacheScope) EngineOption {
	return func(e *Engine) {
		e.scope = scope
	}
}

// WithRunIDGenerator sets the run ID generator. Default: UUIDv7Generator.
func WithRunIDGenerator(gen RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = gen
	}
}

// New creates an Engine resolving fixtures through cache.
func New(cache *fixture.Cache, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: cache.Registry(),
		cache:    cache,
		scope:    ScopeProcess,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		runIDs:   UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the process-scoped cache of the engine.
func (e *Engine) Cache() *fixture.Cache {
	return e.cache
}

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
)

// Default returns the engine over fixture.DefaultCache().
func Default() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = New(fixture.DefaultCache())
	})
	return defaultEngine
}

// Run runs test on the default engine. See Engine.Run.
func Run(ctx context.Context, tc TestCase, test Test, base Args, p Parametrization) (*Report, error) {
	return Default().Run(ctx, tc, test, base, p)
}

// plan is a validated run, ready to execute.
type plan struct {
	test    Test
	base    Args
	binder  *Binder
	class   Classification
	rows    []Tuple
	workers int
}

// Run invokes test.Body once per value row of p.
//
// Configuration and arity errors, and a context already done, are returned
// before any invocation with a nil report. Otherwise the report is always
// returned: in sequential mode together with the first invocation error
// (later rows are skipped), in parallel mode together with a *FailureSet
// of every failed row.
func (e *Engine) Run(ctx context.Context, tc TestCase, test Test, base Args, p Parametrization) (*Report, error) {
	pl, err := e.prepare(tc, test, base, p)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := newReport(e.runIDs.Generate(), pl.test.Name, pl.workers, pl.class, pl.rows)
	logger := e.logger.With("run_id", report.RunID, "test", report.Test)
	logger.Info("parametrized run starting",
		"mode", report.Mode,
		"workers", pl.workers,
		"invocations", len(pl.rows),
		"vars", pl.class.Parametrized,
		"fixtures", pl.class.Fixtures,
	)

	if pl.workers == 1 {
		err = e.runSequential(ctx, tc, pl, report, logger)
	} else {
		err = e.runParallel(ctx, tc, pl, report, logger)
	}

	logger.Info("parametrized run finished",
		"passed", report.Passed(),
		"failed", report.Failed(),
		"skipped", report.Skipped(),
	)
	return report, err
}

// prepare validates everything that can be checked before any invocation.
func (e *Engine) prepare(tc TestCase, test Test, base Args, p Parametrization) (*plan, error) {
	if isNilReceiver(tc) {
		return nil, configErrorf(test.Name, "receiver is not a runnable test case (nil)")
	}
	if test.Name == "" {
		test.Name = tc.Name()
	}
	if err := test.validate(); err != nil {
		return nil, err
	}
	if p.Workers < 1 {
		return nil, configErrorf(test.Name, "worker count must be at least 1, got %d", p.Workers)
	}

	vars, err := parseVars(test.Name, p.Vars)
	if err != nil {
		return nil, err
	}
	for _, v := range vars {
		if !slices.Contains(test.Params, v) {
			return nil, configErrorf(test.Name, "variable %q is not a declared parameter of the test", v)
		}
		if _, ok := base[v]; ok {
			return nil, configErrorf(test.Name, "variable %q is also supplied as a base argument", v)
		}
	}

	binder := NewBinder(e.cache)
	if e.scope == ScopeRun {
		binder = NewBinder(fixture.NewCache(e.registry, fixture.WithLogger(e.logger)))
	}

	supplied := make([]string, 0, len(base))
	for name := range base {
		supplied = append(supplied, name)
	}
	class := binder.Classify(test.Params, supplied, vars)

	rows := normalize(p.Values)
	for i, row := range rows {
		if len(row) != len(class.Parametrized) {
			return nil, newArityError(test.Name, i, class.Parametrized, len(row))
		}
	}

	return &plan{
		test:    test,
		base:    base,
		binder:  binder,
		class:   class,
		rows:    rows,
		workers: p.Workers,
	}, nil
}

// runSequential runs rows in order and stops at the first failure.
func (e *Engine) runSequential(ctx context.Context, tc TestCase, pl *plan, report *Report, logger *slog.Logger) error {
	for i, row := range pl.rows {
		failure := e.invoke(ctx, tc, pl, i, row)
		report.record(i, failure)
		if failure != nil {
			logger.Warn("invocation failed, aborting run",
				"index", i,
				"skipped", len(pl.rows)-i-1,
				"error", failure,
			)
			return failure
		}
		logger.Debug("invocation passed", "index", i)
	}
	return nil
}

// runParallel runs every row on a pool of pl.workers goroutines and
// collects all failures. Workers record failures by index and always
// return nil to the group.
func (e *Engine) runParallel(ctx context.Context, tc TestCase, pl *plan, report *Report, logger *slog.Logger) error {
	failures := make([]*InvocationError, len(pl.rows))

	var g errgroup.Group
	g.SetLimit(pl.workers)
	for i, row := range pl.rows {
		g.Go(func() error {
			failure := e.invoke(ctx, tc, pl, i, row)
			report.record(i, failure)
			if failure != nil {
				failures[i] = failure
				logger.Warn("invocation failed", "index", i, "error", failure)
				return nil
			}
			logger.Debug("invocation passed", "index", i)
			return nil
		})
	}
	g.Wait()

	fs := &FailureSet{Test: pl.test.Name, Total: len(pl.rows)}
	for _, f := range failures {
		if f != nil {
			fs.Failures = append(fs.Failures, f)
		}
	}
	if fs.Len() == 0 {
		return nil
	}
	return fs
}

// invoke binds and runs one row. It returns nil or an *InvocationError.
func (e *Engine) invoke(ctx context.Context, tc TestCase, pl *plan, index int, row Tuple) *InvocationError {
	fail := func(err error) *InvocationError {
		return &InvocationError{Test: pl.test.Name, Index: index, Values: row, Err: err}
	}

	fixtures, err := pl.binder.Resolve(ctx, pl.test.Name, pl.class)
	if err != nil {
		return fail(err)
	}

	args := make(Args, len(pl.base)+len(row)+len(fixtures))
	for k, v := range fixtures {
		args[k] = v
	}
	for j, name := range pl.class.Parametrized {
		args[name] = row[j]
	}
	for k, v := range pl.base {
		args[k] = v
	}

	if err := callBody(tc, pl.test, args); err != nil {
		return fail(err)
	}
	return nil
}

// callBody runs the body, converting a panic into a PANIC error.
func callBody(tc TestCase, test Test, args Args) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{
				Code:    CodePanic,
				Message: fmt.Sprintf("test body panicked: %v", r),
				Test:    test.Name,
				Index:   -1,
			}
		}
	}()
	return test.Body(tc, args)
}

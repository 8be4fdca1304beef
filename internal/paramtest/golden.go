package paramtest

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/testkit/internal/cachekey"
)

// AssertGolden compares report against testdata/golden/{name}.golden.
// The report is serialized as canonical JSON, so use a fixed run ID
// generator (testutil.FixedRunIDGenerator) for reproducible snapshots.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, report *Report) error {
	t.Helper()

	data, err := cachekey.MarshalCanonical(report.canonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

package testutil

// FixedRunIDGenerator generates the same run ID every time.
//
// This enables golden report comparison: the same run with the same
// generator produces byte-identical reports.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a fixed run ID generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
//
// Implements paramtest.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

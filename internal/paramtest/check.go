package paramtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/stretchr/testify/assert"
)

// Check runs testify assertions and converts their failures into an
// ASSERTION error, so bodies can use assert without touching the receiver:
//
//	return paramtest.Check(func(a *assert.Assertions) {
//		a.Equal(want, got)
//	})
//
// Every assertion in fn runs; the error lists all failures in order.
// Returns nil when no assertion failed.
func Check(fn func(a *assert.Assertions)) error {
	rec := &recorder{}
	fn(assert.New(rec))

	msgs := rec.messages()
	if len(msgs) == 0 {
		return nil
	}
	return &Error{
		Code:    CodeAssertion,
		Message: fmt.Sprintf("%d assertion(s) failed: %s", len(msgs), summarize(msgs[0])),
		Index:   -1,
		Details: msgs,
	}
}

// recorder implements assert.TestingT by collecting messages.
type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (r *recorder) Helper() {}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// summarize extracts the "Error:" line of a testify failure message.
// Messages without one are returned whole.
func summarize(msg string) string {
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Error:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return msg
}

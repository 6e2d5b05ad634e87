// Package vesperrors defines the fatal half of the pipeline's error model:
// bugs in lowering, scope violations, and internal inference invariants are
// signaled by panicking with a *Fatal (the bytecode codec returns plain
// error values instead), mirroring the teacher's SentraError/Error()
// shape and the pony-lang original's panic! calls. Callers at a pipeline
// boundary recover() and convert, the same way the teacher's own
// parser_test.go recovers from parser panics in tests.
package vesperrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a Fatal error by the pipeline stage that raised it.
type Kind string

const (
	Lowering Kind = "LoweringError"
	Scope    Kind = "ScopeError"
	Codec    Kind = "CodecError"
	Internal Kind = "InternalError"
)

// Fatal is an unrecoverable invariant violation: malformed input the
// semantic core was never meant to tolerate (an AST shape lowering has no
// rule for, a name the scope checker should already have rejected, an
// instruction field the encoder can't represent).
type Fatal struct {
	Kind    Kind
	Message string
}

func (e *Fatal) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Raise panics with a *Fatal of the given kind, wrapped by pkg/errors so
// the panic carries a stack trace to wherever it's recovered.
func Raise(kind Kind, format string, args ...interface{}) {
	panic(errors.WithStack(&Fatal{Kind: kind, Message: fmt.Sprintf(format, args...)}))
}

// AsFatal unwraps a recovered panic value into a *Fatal, if it is one.
func AsFatal(r interface{}) (*Fatal, bool) {
	type causer interface{ Cause() error }
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	for {
		if f, ok := err.(*Fatal); ok {
			return f, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
}

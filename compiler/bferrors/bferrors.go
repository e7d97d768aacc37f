// Package bferrors defines the error kinds a bfrs compilation can fail with.
package bferrors

import "tlog.app/go/errors"

// Kind classifies a compilation failure for callers that want to branch on
// it (tests use it to assert a specific failure mode was hit; the CLI exits
// nonzero on any error without looking at its Kind).
type Kind int

const (
	// InputIO means the source file could not be read.
	InputIO Kind = iota + 1
	// UnbalancedBrackets means a `[` or `]` had no match.
	UnbalancedBrackets
	// InternalInvariant means a pass produced IR violating one of the
	// invariants of the data model; compilation must abort rather than
	// continue with possibly-miscompiled IR.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case InputIO:
		return "input_io"
	case UnbalancedBrackets:
		return "unbalanced_brackets"
	case InternalInvariant:
		return "internal_invariant"
	default:
		return "unknown"
	}
}

// kindError pairs a Kind with the error that carries it, so errors.Is can
// match on Kind while the wrapped message still carries full context.
type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }
func (e *kindError) Is(target error) bool {
	k, ok := target.(*kindError)
	return ok && k.kind == e.kind
}

// sentinel returns a matchable value for a Kind, for use with errors.Is.
func sentinel(k Kind) error { return &kindError{kind: k} }

// Sentinels for errors.Is matching, e.g. errors.Is(err, bferrors.ErrInputIO).
var (
	ErrInputIO            = sentinel(InputIO)
	ErrUnbalancedBrackets = sentinel(UnbalancedBrackets)
	ErrInternalInvariant  = sentinel(InternalInvariant)
)

// Wrap tags err with kind and the given context, in the project's
// errors.Wrap style.
func Wrap(kind Kind, err error, format string, args ...any) error {
	return &kindError{kind: kind, err: errors.Wrap(err, format, args...)}
}

// New constructs a new error of kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &kindError{kind: kind, err: errors.New(format, args...)}
}

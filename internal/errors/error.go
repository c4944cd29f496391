package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindSyntax
	KindSemantics
	KindIO
	KindIllegalAction
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindSemantics:
		return "semantics"
	case KindIO:
		return "io"
	case KindIllegalAction:
		return "illegal action"
	case KindInvariant:
		return "invariant violation"
	}
	return "unknown"
}

var (
	ErrCancelled          = errors.New("operation cancelled")
	ErrEmptyCollection    = errors.New("collection contains no game tree")
	ErrUnknownRealm       = errors.New("unknown trace realm")
	ErrNoGame             = errors.New("no game in progress")
	ErrGameOver           = errors.New("game is already over")
	ErrNotRolled          = errors.New("cannot move before rolling")
	ErrAlreadyRolled      = errors.New("dice are already rolled")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrNoPendingDouble    = errors.New("no double to respond to")
	ErrNoPendingResign    = errors.New("no resignation to respond to")
	ErrPendingDecision    = errors.New("a cube or resignation decision is pending")
	ErrDoubleNotAllowed   = errors.New("doubling is not allowed")
	ErrSetupAfterAction   = errors.New("setup properties after the first action")
	ErrSetupNotFirstGame  = errors.New("setup properties outside the first game")
	ErrCheckerCount       = errors.New("wrong number of checkers")
	ErrIllegalMove        = errors.New("illegal move")
	ErrUnsupportedVersion = errors.New("unsupported analysis version")
)

// Error is the structured error returned by the parser, the cooker and the
// match reconstructor. Location fields are zero when unknown.
type Error struct {
	Kind     Kind
	Msg      string
	File     string
	Offset   int
	Line     int
	Column   int
	Property string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteByte(':')
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, "%d:%d:", e.Line, e.Column)
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(e.Kind.String())
	b.WriteString(" error: ")
	if e.Property != "" {
		b.WriteString(e.Property)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		if e.Msg != "" {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrCancelled) {
		return KindIO
	}
	return KindUnknown
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

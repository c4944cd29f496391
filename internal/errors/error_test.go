package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	e := &Error{Kind: KindSyntax, Msg: "unterminated value", File: "a.sgf", Line: 3, Column: 7}
	assert.Equal(t, "a.sgf:3:7: syntax error: unterminated value", e.Error())

	e = &Error{Kind: KindSemantics, Msg: "bad number", Property: "CV"}
	assert.Equal(t, "semantics error: CV: bad number", e.Error())
}

func TestKindOf_Wrapped(t *testing.T) {
	inner := Wrap(KindIllegalAction, ErrNotRolled, "game 1")
	outer := fmt.Errorf("reconstruct: %w", inner)

	assert.Equal(t, KindIllegalAction, KindOf(outer))
	assert.True(t, Is(outer, ErrNotRolled))
	assert.Equal(t, KindIO, KindOf(ErrCancelled))
	assert.Equal(t, KindUnknown, KindOf(fmt.Errorf("plain")))
}

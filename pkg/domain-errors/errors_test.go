package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outermost code", func(t *testing.T) {
		err := New(CodeConflict, "meeting is closed")
		assert.True(t, HasCode(err, CodeConflict))
		assert.False(t, HasCode(err, CodeValidation))
	})

	t.Run("matches wrapped code through fmt wrapping", func(t *testing.T) {
		inner := New(CodeExternal, "renderer unavailable")
		err := fmt.Errorf("create meeting: %w", Wrap(inner, CodeInternal, "transition failed"))
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeExternal))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		require.NoError(t, Wrap(nil, CodeInternal, "unused"))
	})

	t.Run("keeps underlying error reachable", func(t *testing.T) {
		root := errors.New("connection reset")
		err := Wrap(root, CodeExternal, "archive request failed")
		assert.ErrorIs(t, err, root)
		assert.Equal(t, "archive request failed: connection reset", err.Error())
	})
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "meeting not found"))
	assert.True(t, Is(err, New(CodeNotFound, "")))
	assert.False(t, Is(err, New(CodeConflict, "")))
}

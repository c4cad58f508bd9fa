package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUnavailable_UnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreUnavailable("get streak", cause)

	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "get streak: store unavailable: connection refused", err.Error())
}

func TestStoreUnavailable_KeepsExistingKind(t *testing.T) {
	err := StoreUnavailable("load course", NotFound("get course"))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrStoreUnavailable)
	assert.Nil(t, StoreUnavailable("noop", nil))
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("submit answer: %w", InvalidState("apply answer", "question %d skipped", 3))

	assert.Equal(t, ErrInvalidState, KindOf(wrapped))
	assert.Equal(t, ErrConflict, KindOf(Conflict("update progress")))
	assert.Nil(t, KindOf(errors.New("plain")))
	assert.Contains(t, wrapped.Error(), "question 3 skipped")
}

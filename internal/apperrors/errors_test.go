package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInactivePerkIsValidation(t *testing.T) {
	assert.True(t, errors.Is(ErrInactivePerk, ErrValidation))
	wrapped := fmt.Errorf("redeem perk p1: %w", ErrInactivePerk)
	assert.True(t, errors.Is(wrapped, ErrInactivePerk))
	assert.True(t, errors.Is(wrapped, ErrValidation))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewAppError(500, "failed to lock holder", cause)

	assert.Equal(t, "failed to lock holder: connection reset", err.Error())
	assert.True(t, errors.Is(err, cause))

	bare := NewAppError(500, "locked holder missing", nil)
	assert.Equal(t, "locked holder missing", bare.Error())
	assert.True(t, errors.Is(bare, ErrInternal))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(fmt.Errorf("student s1: %w", ErrNotFound)))
	assert.True(t, IsClientError(ErrInactivePerk))
	assert.True(t, IsClientError(fmt.Errorf("%w: current balance is 0.00", ErrInsufficientBalance)))
	assert.True(t, IsClientError(ErrNotOwner))
	assert.False(t, IsClientError(NewAppError(500, "failed to append entry", nil)))
	assert.False(t, IsClientError(errors.New("boom")))
}

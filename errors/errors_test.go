package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestSentinels(t *testing.T) {
	err := Wrap(ErrServiceUnavailable, "feature store unreachable")

	assert.True(t, IsServiceUnavailableError(err))
	assert.False(t, IsNotFoundError(err))
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("prediction %s", "abc123")

	require.NotNil(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "abc123")
}

func TestIsInsufficientData(t *testing.T) {
	err := Wrapf(ErrInsufficientData, "only %d feature rows", 12)

	assert.True(t, Is(err, ErrInsufficientData))
	assert.Contains(t, err.Error(), "12")
}

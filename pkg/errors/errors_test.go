package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	cause := errors.New("NaN")
	err := Wrap(CodeInvalidInput, "temperature must be finite", cause)

	require.EqualError(t, err, "temperature must be finite: NaN")
	require.ErrorIs(t, err, cause)
	require.True(t, IsCode(err, CodeInvalidInput))
	require.False(t, IsCode(err, CodeRenderFailed))

	wrapped := fmt.Errorf("chart: %w", err)
	require.Equal(t, CodeInvalidInput, CodeOf(wrapped))
}

func TestCodeOfPlainError(t *testing.T) {
	require.Empty(t, CodeOf(errors.New("boom")))
	require.Empty(t, CodeOf(nil))
	require.EqualError(t, Wrap(CodeRenderFailed, "encode failed", nil), "encode failed")
}

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapFormatsMessage(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeInference, "summarization failed", cause)
	require.EqualError(t, err, "summarization failed: boom")
	require.ErrorIs(t, err, cause)

	bare := Wrap(CodeInvalidInput, "text cannot be empty", nil)
	require.EqualError(t, bare, "text cannot be empty")
}

func TestCodeOfFollowsChain(t *testing.T) {
	err := fmt.Errorf("handler: %w", Wrap(CodeExtraction, "pdf extraction failed", nil))
	require.Equal(t, CodeExtraction, CodeOf(err))
	require.True(t, IsCode(err, CodeExtraction))
	require.False(t, IsCode(err, CodeInference))
	require.Equal(t, "", CodeOf(errors.New("plain")))
}

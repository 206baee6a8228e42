package speech

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleRoundTrip(t *testing.T) {
	out := &bytes.Buffer{}
	console := NewConsole(strings.NewReader("  my answer \n"), out)

	require.NoError(t, console.SynthesizeAndPlay(context.Background(), "first question?"))
	assert.Equal(t, "first question?\n", out.String())

	answer, err := console.Recognize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my answer", answer)
}

func TestConsoleRecognizeEOF(t *testing.T) {
	console := NewConsole(strings.NewReader(""), &bytes.Buffer{})

	_, err := console.Recognize(context.Background())
	require.Error(t, err)
}

func TestConsoleHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	console := NewConsole(strings.NewReader("answer\n"), &bytes.Buffer{})

	_, err := console.Recognize(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	err = console.SynthesizeAndPlay(ctx, "question")
	assert.ErrorIs(t, err, context.Canceled)
}

// Package speech abstracts the voice channel of an interview. The real
// recognition and synthesis backends live outside this repo; Console is
// the text stand-in used by the CLI.
package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Service speaks questions to the candidate and hears answers back.
type Service interface {
	// Recognize blocks until the candidate produces one utterance.
	Recognize(ctx context.Context) (string, error)
	// SynthesizeAndPlay renders text to the candidate.
	SynthesizeAndPlay(ctx context.Context, text string) error
}

// Console reads answers from in and writes questions to out.
type Console struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (c *Console) Recognize(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func (c *Console) SynthesizeAndPlay(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(c.out, text)
	return err
}

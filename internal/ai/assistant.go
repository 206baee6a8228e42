package ai

import (
	"context"
	"errors"
)

// ErrUnavailable marks a backend that is down or not configured. Callers
// use it to pick a degraded strategy instead of failing the whole run.
var ErrUnavailable = errors.New("ai backend unavailable")

// Generator produces free text from a system persona and a user prompt.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Embedder turns text into a fixed-length normalized vector for semantic
// comparison. Implementations may be absent entirely; the scoring engine
// treats a nil Embedder as a permanently unavailable backend.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

package embedding

import (
	"context"

	"github.com/jonathan/job-scout/internal/types"
)

// StaticEmbedder returns a fixed vector (or error) for every call. Tests
// use it in place of a live provider.
type StaticEmbedder struct {
	Vector types.EmbeddingVector
	Err    error

	// Calls records every text passed to EmbedText, in order.
	Calls []string
}

var _ Embedder = (*StaticEmbedder)(nil)

func (s *StaticEmbedder) EmbedText(_ context.Context, text string) (types.EmbeddingVector, error) {
	s.Calls = append(s.Calls, text)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Vector.Clone(), nil
}

func (s *StaticEmbedder) Close() error { return nil }

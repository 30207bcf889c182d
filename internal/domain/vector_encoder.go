package domain

import "context"

// VectorEncoder defines the interface for generating embeddings.
// The pgvector-backed DocumentIndex adapter uses it to embed queries.
type VectorEncoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
	Version() string
}

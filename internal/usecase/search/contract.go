package search

import (
	"context"

	"github.com/harborline/siftgate/internal/domain"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	SearchVector(
		ctx context.Context, tableName string, vector []float32, topK int,
	) ([]domain.Hit, error)

	SearchKeyword(
		ctx context.Context, tableName, query string, topK int,
	) ([]domain.Hit, error)

	SupportsTextSearch(ctx context.Context) bool
}

// TableEnsurer lazily creates the target table before a query runs.
type TableEnsurer interface {
	Ensure(ctx context.Context, name string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

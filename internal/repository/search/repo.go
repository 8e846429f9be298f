// Package search runs vector and keyword queries against a table's FT index
// and returns rank-ordered hits for fusion.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harborline/siftgate/internal/db"
	"github.com/harborline/siftgate/internal/domain"
	"github.com/harborline/siftgate/internal/repository/table"
)

// returnFields lists the hash fields requested from the store. The vector blob
// is never requested: result payloads carry text and metadata only.
var returnFields = []string{"text", "metadata"}

// store is the consumer interface for search operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// SearchVector performs a KNN search and returns hits ordered by similarity,
// best first. Rank is the zero-based position in that ordering.
func (r *Repo) SearchVector(
	ctx context.Context, tableName string, vector []float32, topK int,
) ([]domain.Hit, error) {
	q := &db.KNNQuery{
		IndexName:    table.IndexName(tableName),
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("table %s: %w", tableName, domain.ErrTableNotFound)
		}
		return nil, fmt.Errorf("search knn %s: %w", tableName, err)
	}

	return parseHits(sr, tableName), nil
}

// SearchKeyword performs a full-text search and returns hits ordered by
// relevance, best first. Stores without text search capability yield
// domain.ErrKeywordSearchNotSupported.
func (r *Repo) SearchKeyword(
	ctx context.Context, tableName, query string, topK int,
) ([]domain.Hit, error) {
	q := &db.TextQuery{
		IndexName:    table.IndexName(tableName),
		Query:        query,
		TopK:         topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrTextSearchUnsupported):
			return nil, domain.ErrKeywordSearchNotSupported
		case errors.Is(err, db.ErrIndexNotFound):
			return nil, fmt.Errorf("table %s: %w", tableName, domain.ErrTableNotFound)
		}
		return nil, fmt.Errorf("search text %s: %w", tableName, err)
	}

	return parseHits(sr, tableName), nil
}

// parseHits converts db.SearchResult into rank-ordered domain hits. Document
// ids are recovered by trimming the table's key prefix.
func parseHits(sr *db.SearchResult, tableName string) []domain.Hit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	prefix := table.RecordPrefix(tableName)
	hits := make([]domain.Hit, 0, len(sr.Entries))

	for i, entry := range sr.Entries {
		hits = append(hits, domain.Hit{
			ID:       strings.TrimPrefix(entry.Key, prefix),
			Rank:     i,
			Text:     entry.Fields["text"],
			Metadata: entry.Fields["metadata"],
		})
	}

	return hits
}

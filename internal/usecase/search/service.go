// Package search implements the hybrid retrieval engine: vector similarity
// and keyword relevance fused into one ranking.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/harborline/siftgate/internal/domain"
)

// Service handles document search across vector-only and hybrid modes.
type Service struct {
	repo       Repository
	tables     TableEnsurer
	embed      Embedder
	maxLimit   int
	oversample int
	logger     *zap.Logger
}

// New creates a search service. oversample multiplies limit into the per-leg
// candidate depth so fusion has enough overlap to work with.
func New(
	repo Repository,
	tables TableEnsurer,
	embed Embedder,
	maxLimit, oversample int,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		tables:     tables,
		embed:      embed,
		maxLimit:   maxLimit,
		oversample: oversample,
		logger:     logger,
	}
}

// Search runs the hybrid query: both legs fetch oversample×limit candidates
// concurrently, then alpha-weighted reciprocal rank fusion merges them.
// A store without keyword search degrades to the vector leg alone; that is
// not an error.
func (s *Service) Search(
	ctx context.Context, tableName, query string, limit int, alpha float64,
) ([]domain.FusedResult, error) {
	limit, err := s.validate(limit, alpha)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []domain.FusedResult{}, nil
	}

	if err := s.tables.Ensure(ctx, tableName); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	topK := limit * s.oversample

	var vectorHits, keywordHits []domain.Hit
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hits, err := s.repo.SearchVector(gctx, tableName, embResult.Embedding, topK)
		if err != nil {
			return fmt.Errorf("search vector: %w", err)
		}
		vectorHits = hits
		return nil
	})

	g.Go(func() error {
		hits, err := s.searchKeyword(gctx, tableName, query, topK)
		if err != nil {
			return err
		}
		keywordHits = hits
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fuse(vectorHits, keywordHits, alpha, limit), nil
}

// VectorOnly runs the pure similarity query. Equivalent to Search with
// alpha=0 but never touches the keyword leg.
func (s *Service) VectorOnly(
	ctx context.Context, tableName, query string, limit int,
) ([]domain.FusedResult, error) {
	limit, err := s.validate(limit, 0)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []domain.FusedResult{}, nil
	}

	if err := s.tables.Ensure(ctx, tableName); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := s.repo.SearchVector(ctx, tableName, embResult.Embedding, limit*s.oversample)
	if err != nil {
		return nil, fmt.Errorf("search vector: %w", err)
	}

	return fuse(hits, nil, 0, limit), nil
}

// searchKeyword runs the keyword leg, absorbing capability degrades: a store
// without full-text support contributes an empty list.
func (s *Service) searchKeyword(
	ctx context.Context, tableName, query string, topK int,
) ([]domain.Hit, error) {
	if !s.repo.SupportsTextSearch(ctx) {
		s.logger.Debug("Keyword search unsupported, degrading to vector-only",
			zap.String("table", tableName))
		return nil, nil
	}

	hits, err := s.repo.SearchKeyword(ctx, tableName, query, topK)
	if err != nil {
		if errors.Is(err, domain.ErrKeywordSearchNotSupported) {
			s.logger.Debug("Keyword search unsupported, degrading to vector-only",
				zap.String("table", tableName))
			return nil, nil
		}
		return nil, fmt.Errorf("search keyword: %w", err)
	}
	return hits, nil
}

// validate checks alpha and limit and clamps limit to the configured maximum.
func (s *Service) validate(limit int, alpha float64) (int, error) {
	if alpha < 0 || alpha > 1 {
		return 0, fmt.Errorf("alpha %v out of range [0,1]: %w", alpha, domain.ErrInvalidArgument)
	}
	if limit < 0 {
		return 0, fmt.Errorf("limit %d is negative: %w", limit, domain.ErrInvalidArgument)
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit, nil
}

package search

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	searchVectorFn       func(ctx context.Context, tableName string, vector []float32, topK int) ([]domain.Hit, error)
	searchKeywordFn      func(ctx context.Context, tableName, query string, topK int) ([]domain.Hit, error)
	supportsTextSearchFn func(ctx context.Context) bool
}

func (m *mockRepo) SearchVector(ctx context.Context, tableName string, vector []float32, topK int) ([]domain.Hit, error) {
	if m.searchVectorFn != nil {
		return m.searchVectorFn(ctx, tableName, vector, topK)
	}
	return nil, nil
}

func (m *mockRepo) SearchKeyword(ctx context.Context, tableName, query string, topK int) ([]domain.Hit, error) {
	if m.searchKeywordFn != nil {
		return m.searchKeywordFn(ctx, tableName, query, topK)
	}
	return nil, nil
}

func (m *mockRepo) SupportsTextSearch(ctx context.Context) bool {
	if m.supportsTextSearchFn != nil {
		return m.supportsTextSearchFn(ctx)
	}
	return true
}

// mockTables implements TableEnsurer for tests.
type mockTables struct {
	ensureFn func(ctx context.Context, name string) error
	ensured  []string
}

func (m *mockTables) Ensure(ctx context.Context, name string) error {
	m.ensured = append(m.ensured, name)
	if m.ensureFn != nil {
		return m.ensureFn(ctx, name)
	}
	return nil
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return m.result, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockTables, *mockEmbedder) {
	t.Helper()
	repo := &mockRepo{}
	tables := &mockTables{}
	embed := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}}
	svc := New(repo, tables, embed, 100, 2, zap.NewNop())
	return svc, repo, tables, embed
}

func TestSearch_AlphaOutOfRange(t *testing.T) {
	svc, _, _, embed := newTestService(t)

	for _, alpha := range []float64{-0.1, 1.5} {
		_, err := svc.Search(context.Background(), "products", "q", 10, alpha)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("alpha=%v: expected ErrInvalidArgument, got %v", alpha, err)
		}
	}
	if embed.calls != 0 {
		t.Error("embedder must not be called on invalid alpha")
	}
}

func TestSearch_NegativeLimit(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Search(context.Background(), "products", "q", -1, 0.5)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSearch_ZeroLimit(t *testing.T) {
	svc, _, tables, embed := newTestService(t)

	results, err := svc.Search(context.Background(), "products", "q", 0, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil result, got %v", results)
	}
	if len(tables.ensured) != 0 || embed.calls != 0 {
		t.Error("limit=0 must not touch table or embedder")
	}
}

func TestSearch_EnsuresTableAndOversamples(t *testing.T) {
	svc, repo, tables, _ := newTestService(t)

	var vectorTopK, keywordTopK int
	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, topK int) ([]domain.Hit, error) {
		vectorTopK = topK
		return nil, nil
	}
	repo.searchKeywordFn = func(_ context.Context, _, _ string, topK int) ([]domain.Hit, error) {
		keywordTopK = topK
		return nil, nil
	}

	_, err := svc.Search(context.Background(), "products", "q", 5, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tables.ensured) != 1 || tables.ensured[0] != "products" {
		t.Errorf("ensured tables: got %v", tables.ensured)
	}
	if vectorTopK != 10 || keywordTopK != 10 {
		t.Errorf("topK: vector=%d keyword=%d, want 10/10", vectorTopK, keywordTopK)
	}
}

func TestSearch_ClampsLimit(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	var topK int
	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, k int) ([]domain.Hit, error) {
		topK = k
		return nil, nil
	}

	// maxLimit=100, oversample=2
	_, err := svc.Search(context.Background(), "products", "q", 5000, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topK != 200 {
		t.Errorf("topK: got %d, want 200", topK)
	}
}

func TestSearch_DegradesWithoutTextSearch(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.supportsTextSearchFn = func(_ context.Context) bool { return false }
	var keywordCalled bool
	repo.searchKeywordFn = func(_ context.Context, _, _ string, _ int) ([]domain.Hit, error) {
		keywordCalled = true
		return nil, nil
	}
	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, _ int) ([]domain.Hit, error) {
		return []domain.Hit{{ID: "a", Rank: 0, Text: "t"}}, nil
	}

	// alpha=0.5 on a store without keyword search: vector leg alone, no error
	results, err := svc.Search(context.Background(), "products", "q", 10, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keywordCalled {
		t.Error("keyword leg must be skipped when unsupported")
	}
	if len(results) != 1 || results[0].ID != "a" {
		t.Errorf("results: got %v", results)
	}
}

func TestSearch_DegradesOnUnsupportedError(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.searchKeywordFn = func(_ context.Context, _, _ string, _ int) ([]domain.Hit, error) {
		return nil, domain.ErrKeywordSearchNotSupported
	}
	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, _ int) ([]domain.Hit, error) {
		return []domain.Hit{{ID: "a", Rank: 0}}, nil
	}

	results, err := svc.Search(context.Background(), "products", "q", 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results: got %v", results)
	}
}

func TestSearch_EmbedErrorPropagates(t *testing.T) {
	svc, repo, _, embed := newTestService(t)

	embed.err = domain.ErrEmbeddingProviderError
	var searched bool
	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, _ int) ([]domain.Hit, error) {
		searched = true
		return nil, nil
	}

	_, err := svc.Search(context.Background(), "products", "q", 10, 0.5)
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected embedding provider error, got %v", err)
	}
	if searched {
		t.Error("store must not be queried when embedding fails")
	}
}

func TestSearch_VectorErrorPropagates(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, _ int) ([]domain.Hit, error) {
		return nil, domain.ErrTableNotFound
	}

	_, err := svc.Search(context.Background(), "products", "q", 10, 0.5)
	if !errors.Is(err, domain.ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestVectorOnly_SkipsKeywordLeg(t *testing.T) {
	svc, repo, tables, _ := newTestService(t)

	var keywordCalled bool
	repo.searchKeywordFn = func(_ context.Context, _, _ string, _ int) ([]domain.Hit, error) {
		keywordCalled = true
		return nil, nil
	}
	repo.searchVectorFn = func(_ context.Context, _ string, _ []float32, topK int) ([]domain.Hit, error) {
		if topK != 6 {
			t.Errorf("topK: got %d, want 6", topK)
		}
		return []domain.Hit{
			{ID: "a", Rank: 0, Text: "first"},
			{ID: "b", Rank: 1, Text: "second"},
		}, nil
	}

	results, err := svc.VectorOnly(context.Background(), "products", "q", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keywordCalled {
		t.Error("keyword leg must not run in vector-only mode")
	}
	if len(tables.ensured) != 1 {
		t.Errorf("ensured: got %v", tables.ensured)
	}
	if len(results) != 2 || results[0].ID != "a" || results[1].ID != "b" {
		t.Errorf("results: got %v", results)
	}
	if results[0].Score != 1.0 || results[1].Score != 0.5 {
		t.Errorf("scores: got %v, %v", results[0].Score, results[1].Score)
	}
}

package chi

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
	chatuc "github.com/harborline/siftgate/internal/usecase/chat"
	healthuc "github.com/harborline/siftgate/internal/usecase/health"
	ingestuc "github.com/harborline/siftgate/internal/usecase/ingest"
	searchuc "github.com/harborline/siftgate/internal/usecase/search"
	speechuc "github.com/harborline/siftgate/internal/usecase/speech"
	tableuc "github.com/harborline/siftgate/internal/usecase/table"
)

// mockTableRepo implements usecase/table.Repository.
type mockTableRepo struct {
	existsFn func(ctx context.Context, name string) (bool, error)
	createFn func(ctx context.Context, name string) error
	listFn   func(ctx context.Context) ([]string, error)
}

func (m *mockTableRepo) Exists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return true, nil
}

func (m *mockTableRepo) Create(ctx context.Context, name string) error {
	if m.createFn != nil {
		return m.createFn(ctx, name)
	}
	return nil
}

func (m *mockTableRepo) List(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// mockSearchRepo implements usecase/search.Repository.
type mockSearchRepo struct {
	searchVectorFn  func(ctx context.Context, tableName string, vector []float32, topK int) ([]domain.Hit, error)
	searchKeywordFn func(ctx context.Context, tableName, query string, topK int) ([]domain.Hit, error)
	supportsText    bool
}

func (m *mockSearchRepo) SearchVector(ctx context.Context, tableName string, vector []float32, topK int) ([]domain.Hit, error) {
	if m.searchVectorFn != nil {
		return m.searchVectorFn(ctx, tableName, vector, topK)
	}
	return nil, nil
}

func (m *mockSearchRepo) SearchKeyword(ctx context.Context, tableName, query string, topK int) ([]domain.Hit, error) {
	if m.searchKeywordFn != nil {
		return m.searchKeywordFn(ctx, tableName, query, topK)
	}
	return nil, nil
}

func (m *mockSearchRepo) SupportsTextSearch(_ context.Context) bool {
	return m.supportsText
}

// mockIngestRepo implements usecase/ingest.Repository.
type mockIngestRepo struct {
	insertFn func(ctx context.Context, tableName string, records []domain.Record) error
	deleteFn func(ctx context.Context, tableName string, ids []string) error
}

func (m *mockIngestRepo) Insert(ctx context.Context, tableName string, records []domain.Record) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, tableName, records)
	}
	return nil
}

func (m *mockIngestRepo) Delete(ctx context.Context, tableName string, ids []string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tableName, ids)
	}
	return nil
}

// mockEmbedder implements domain.Embedder.
type mockEmbedder struct {
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

// mockChatProvider implements usecase/chat.Provider.
type mockChatProvider struct {
	completeFn func(ctx context.Context, messages []domain.ChatMessage, opts domain.ChatOptions) (string, error)
}

func (m *mockChatProvider) Complete(
	ctx context.Context, messages []domain.ChatMessage, opts domain.ChatOptions,
) (string, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, messages, opts)
	}
	return "assistant says hi", nil
}

// mockSpeechProvider implements usecase/speech.Provider.
type mockSpeechProvider struct {
	synthesizeFn func(ctx context.Context, req domain.SpeechRequest) ([]byte, error)
	transcribeFn func(ctx context.Context, filename string, audio io.Reader, language string) (string, error)
}

func (m *mockSpeechProvider) Synthesize(ctx context.Context, req domain.SpeechRequest) ([]byte, error) {
	if m.synthesizeFn != nil {
		return m.synthesizeFn(ctx, req)
	}
	return []byte("audio-bytes"), nil
}

func (m *mockSpeechProvider) Transcribe(
	ctx context.Context, filename string, audio io.Reader, language string,
) (string, error) {
	if m.transcribeFn != nil {
		return m.transcribeFn(ctx, filename, audio, language)
	}
	return "transcript", nil
}

// mockPinger implements usecase/health.DBPinger.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// testDeps bundles the mocks behind a test server.
type testDeps struct {
	tables *mockTableRepo
	search *mockSearchRepo
	ingest *mockIngestRepo
	embed  *mockEmbedder
	chat   *mockChatProvider
	speech *mockSpeechProvider
	pinger *mockPinger
}

// newTestServer wires a full router over mocks.
func newTestServer(t *testing.T) (*httptest.Server, *testDeps) {
	t.Helper()

	deps := &testDeps{
		tables: &mockTableRepo{},
		search: &mockSearchRepo{supportsText: true},
		ingest: &mockIngestRepo{},
		embed:  &mockEmbedder{},
		chat:   &mockChatProvider{},
		speech: &mockSpeechProvider{},
		pinger: &mockPinger{},
	}

	logger := zap.NewNop()
	tableSvc := tableuc.New(deps.tables, logger)
	searchSvc := searchuc.New(deps.search, tableSvc, deps.embed, 100, 2, logger)
	ingestSvc := ingestuc.New(deps.ingest, tableSvc, deps.embed, 2, logger)
	chatSvc := chatuc.New(deps.chat, "default-model", true)
	speechSvc := speechuc.New(deps.speech, "tts-1", "whisper-1", true)
	healthSvc := healthuc.New(deps.pinger, nil, chatSvc, speechSvc)

	server := NewServer(tableSvc, searchSvc, ingestSvc, chatSvc, speechSvc, healthSvc, logger)

	r := chi.NewRouter()
	server.Routes(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, deps
}

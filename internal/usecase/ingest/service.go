// Package ingest turns raw admin documents into embedded records and writes
// them in one batch.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
)

// textFieldPriority lists the payload fields tried, in order, as the string
// to embed. A document with none of them falls back to its full JSON dump.
var textFieldPriority = []string{"text", "content", "description"}

// Repository defines the storage contract for ingestion.
type Repository interface {
	Insert(ctx context.Context, tableName string, records []domain.Record) error
	Delete(ctx context.Context, tableName string, ids []string) error
}

// TableEnsurer lazily creates the target table before a write.
type TableEnsurer interface {
	Ensure(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Service handles document ingestion and deletion.
type Service struct {
	repo      Repository
	tables    TableEnsurer
	embed     Embedder
	vectorDim int
	logger    *zap.Logger
}

// New creates an ingestion service. vectorDim is the deployment's fixed
// embedding dimension; provider responses of any other width are rejected.
func New(repo Repository, tables TableEnsurer, embed Embedder, vectorDim int, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		tables:    tables,
		embed:     embed,
		vectorDim: vectorDim,
		logger:    logger,
	}
}

// Ingest embeds and inserts all documents into the table, creating it on
// first use. The batch is all-or-nothing: every document is embedded before
// anything is written, so an embedding failure leaves the table untouched.
// Returns the number of inserted records.
func (s *Service) Ingest(ctx context.Context, tableName string, docs []map[string]any) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	if err := s.tables.Ensure(ctx, tableName); err != nil {
		return 0, fmt.Errorf("ensure table: %w", err)
	}

	records := make([]domain.Record, 0, len(docs))
	for i, doc := range docs {
		rec, err := s.buildRecord(ctx, doc)
		if err != nil {
			return 0, fmt.Errorf("document %d: %w", i, err)
		}
		records = append(records, rec)
	}

	if err := s.repo.Insert(ctx, tableName, records); err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}

	s.logger.Info("Ingested documents",
		zap.String("table", tableName),
		zap.Int("count", len(records)))

	return len(records), nil
}

// DeleteByIDs removes records by id. The table must already exist.
func (s *Service) DeleteByIDs(ctx context.Context, tableName string, ids []string) (int, error) {
	exists, err := s.tables.Exists(ctx, tableName)
	if err != nil {
		return 0, fmt.Errorf("table exists: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("table %s: %w", tableName, domain.ErrTableNotFound)
	}

	if err := s.repo.Delete(ctx, tableName, ids); err != nil {
		return 0, fmt.Errorf("delete: %w", err)
	}

	return len(ids), nil
}

func (s *Service) buildRecord(ctx context.Context, doc map[string]any) (domain.Record, error) {
	text, err := extractText(doc)
	if err != nil {
		return domain.Record{}, err
	}

	embResult, err := s.embed.Embed(ctx, text)
	if err != nil {
		return domain.Record{}, fmt.Errorf("embed: %w", err)
	}
	if s.vectorDim > 0 && len(embResult.Embedding) != s.vectorDim {
		return domain.Record{}, fmt.Errorf("embedding dim %d, expected %d: %w",
			len(embResult.Embedding), s.vectorDim, domain.ErrVectorDimMismatch)
	}

	id := documentID(doc)

	metadata, err := encodeMetadata(doc)
	if err != nil {
		return domain.Record{}, err
	}

	return domain.Record{
		ID:       id,
		Text:     text,
		Vector:   embResult.Embedding,
		Metadata: metadata,
	}, nil
}

// extractText picks the string to embed: the first non-empty priority field,
// else the document's full JSON dump.
func extractText(doc map[string]any) (string, error) {
	for _, k := range textFieldPriority {
		if v, ok := doc[k].(string); ok && v != "" {
			return v, nil
		}
	}

	dump, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("dump document: %w: %w", domain.ErrInvalidArgument, err)
	}
	return string(dump), nil
}

// documentID returns the caller-supplied id or a fresh UUID.
func documentID(doc map[string]any) string {
	if v, ok := doc["id"].(string); ok && v != "" {
		return v
	}
	return uuid.NewString()
}

// metadataExcluded names the payload fields that map onto dedicated record
// columns. Everything else lands in the metadata blob; a caller-supplied
// vector in particular must never round-trip through it.
var metadataExcluded = map[string]bool{"id": true, "text": true, "vector": true}

// encodeMetadata serializes every payload field not captured by a record column.
func encodeMetadata(doc map[string]any) (string, error) {
	rest := make(map[string]any, len(doc))
	for k, v := range doc {
		if metadataExcluded[k] {
			continue
		}
		rest[k] = v
	}
	if len(rest) == 0 {
		return "{}", nil
	}

	data, err := json.Marshal(rest)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w: %w", domain.ErrInvalidArgument, err)
	}
	return string(data), nil
}

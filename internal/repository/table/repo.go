// Package table persists table lifecycle state: one FT index per table plus
// a catalog set used for listing.
package table

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/harborline/siftgate/internal/db"
	"github.com/harborline/siftgate/internal/domain"
)

// placeholderID seeds a freshly created table with one structurally valid
// record so any schema inference the store performs sees the full field set.
// It is deleted immediately and never appears in query results.
const placeholderID = "placeholder"

// store is the consumer interface for table operations.
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SupportsTextSearch(ctx context.Context) bool
	IndexExists(ctx context.Context, name string) (bool, error)
	HSet(ctx context.Context, key string, fields map[string]string) error
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo implements usecase/table.Repository.
type Repo struct {
	store     store
	vectorDim int
}

// New creates a table repository. vectorDim fixes the embedding dimension for
// every table this deployment creates.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim}
}

// Exists reports whether the table's index is present in the store.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := r.store.IndexExists(ctx, IndexName(name))
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", name, err)
	}
	return exists, nil
}

// Create builds the table's FT index with the fixed record schema, registers
// it in the catalog, and runs the seed-then-delete placeholder cycle.
// A concurrent creator winning the race surfaces as db.ErrIndexExists, which
// is mapped to domain.ErrTableAlreadyExists for the caller to treat as success.
func (r *Repo) Create(ctx context.Context, name string) error {
	if !db.IsValidIdentifier(name) {
		return fmt.Errorf("table name %q: %w", name, domain.ErrInvalidArgument)
	}

	// Backends without TEXT fields (Valkey search) index text as TAG so
	// FT.CREATE still succeeds; keyword search degrades upstream.
	textType := db.IndexFieldText
	if !r.store.SupportsTextSearch(ctx) {
		textType = db.IndexFieldTag
	}

	def := &db.IndexDefinition{
		Name:     IndexName(name),
		Prefixes: []string{RecordPrefix(name)},
		Fields: []db.IndexField{
			{Name: "text", Type: textType},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorFlat,
				VectorDim:      r.vectorDim,
				VectorDistance: db.DistanceCosine,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return domain.ErrTableAlreadyExists
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}

	if err := r.store.SAdd(ctx, catalogKey(), name); err != nil {
		return fmt.Errorf("register table %s: %w", name, err)
	}

	if err := r.seedPlaceholder(ctx, name); err != nil {
		return err
	}

	return nil
}

// List returns all registered table names, sorted.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	names, err := r.store.SMembers(ctx, catalogKey())
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repo) seedPlaceholder(ctx context.Context, name string) error {
	key := RecordPrefix(name) + placeholderID
	fields := map[string]string{
		"text":     placeholderID,
		"vector":   zeroVectorBlob(r.vectorDim),
		"metadata": "{}",
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("seed placeholder %s: %w", name, err)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("delete placeholder %s: %w", name, err)
	}
	return nil
}

// zeroVectorBlob returns dim float32 zeros in the store's binary layout.
func zeroVectorBlob(dim int) string {
	return string(make([]byte, dim*4))
}

// IndexName returns the FT index name for a table.
func IndexName(table string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, table)
}

// RecordPrefix returns the record key prefix for a table.
func RecordPrefix(table string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, table)
}

func catalogKey() string {
	return domain.KeyPrefix + "tables"
}

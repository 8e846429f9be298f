// Package document persists records as store hashes under the table's key prefix.
package document

import (
	"context"
	"fmt"

	"github.com/harborline/siftgate/internal/db"
	"github.com/harborline/siftgate/internal/domain"
	"github.com/harborline/siftgate/internal/repository/table"
)

// store is the consumer interface for document operations.
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
}

// Repo implements record persistence for the ingestion and deletion paths.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Insert writes all records to the table in one pipelined round-trip.
// Callers embed and validate before calling; nothing is written on error
// paths upstream of this call.
func (r *Repo) Insert(ctx context.Context, tableName string, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(records))
	for i, rec := range records {
		items[i] = db.HashSetItem{
			Key:    table.RecordPrefix(tableName) + rec.ID,
			Fields: recordToFields(rec),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("insert records %s: %w", tableName, err)
	}
	return nil
}

// Get retrieves one record by id. A missing key yields an empty record with
// no error; the store returns an empty hash for absent keys.
func (r *Repo) Get(ctx context.Context, tableName, id string) (domain.Record, error) {
	fields, err := r.store.HGetAll(ctx, table.RecordPrefix(tableName)+id)
	if err != nil {
		return domain.Record{}, fmt.Errorf("get record %s/%s: %w", tableName, id, err)
	}
	if len(fields) == 0 {
		return domain.Record{}, nil
	}
	return fieldsToRecord(id, fields), nil
}

// Delete removes records by id in one round-trip.
func (r *Repo) Delete(ctx context.Context, tableName string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = table.RecordPrefix(tableName) + id
	}

	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete records %s: %w", tableName, err)
	}
	return nil
}

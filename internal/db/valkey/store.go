// Package valkey adapts the redis driver for Valkey deployments.
//
// Valkey's search module speaks the same FT.CREATE/FT.SEARCH dialect for TAG
// and VECTOR fields but has no TEXT field type, so keyword search is
// unavailable and hybrid search degrades to vector-only upstream.
package valkey

import (
	"context"

	"github.com/harborline/siftgate/internal/db"
	"github.com/harborline/siftgate/internal/db/redis"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds connection parameters for a Valkey store.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store for Valkey with the search module.
type Store struct {
	*redis.Store
}

// NewStore creates a Valkey store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	inner, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, err
	}
	return &Store{Store: inner}, nil
}

// NewStoreWith wraps an existing redis store (used by tests).
func NewStoreWith(inner *redis.Store) *Store {
	return &Store{Store: inner}
}

// SupportsTextSearch returns false: Valkey search has no TEXT fields.
func (s *Store) SupportsTextSearch(_ context.Context) bool {
	return false
}

// SearchText always reports the missing capability.
func (s *Store) SearchText(_ context.Context, _ *db.TextQuery) (*db.SearchResult, error) {
	return nil, db.ErrTextSearchUnsupported
}

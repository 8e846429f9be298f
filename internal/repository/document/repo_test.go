package document

import (
	"context"
	"errors"
	"testing"

	"github.com/harborline/siftgate/internal/db"
	"github.com/harborline/siftgate/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn   func(ctx context.Context, key string) (map[string]string, error)
	delFn       func(ctx context.Context, keys ...string) error
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, keys ...string) error {
	if m.delFn != nil {
		return m.delFn(ctx, keys...)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func TestInsert_KeysAndFields(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		got = items
		return nil
	}

	records := []domain.Record{
		{ID: "a", Text: "first", Vector: []float32{1, 2}, Metadata: `{"k":"v"}`},
		{ID: "b", Text: "second", Vector: []float32{3, 4}, Metadata: "{}"},
	}

	if err := repo.Insert(context.Background(), "products", records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Key != "siftgate:products:a" || got[1].Key != "siftgate:products:b" {
		t.Errorf("keys: got %q, %q", got[0].Key, got[1].Key)
	}
	if got[0].Fields["text"] != "first" {
		t.Errorf("text field: got %q", got[0].Fields["text"])
	}
	if got[0].Fields["metadata"] != `{"k":"v"}` {
		t.Errorf("metadata field: got %q", got[0].Fields["metadata"])
	}
	if len(got[0].Fields["vector"]) != 2*4 {
		t.Errorf("vector blob: got %d bytes, want 8", len(got[0].Fields["vector"]))
	}
}

func TestInsert_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	var called bool
	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error {
		called = true
		return nil
	}

	if err := repo.Insert(context.Background(), "products", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("HSetMulti must not be called for an empty batch")
	}
}

func TestInsert_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.hsetMultiFn = func(_ context.Context, _ []db.HashSetItem) error {
		return errors.New("write failed")
	}

	err := repo.Insert(context.Background(), "products", []domain.Record{{ID: "a"}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)

	stored := recordToFields(domain.Record{
		ID: "a", Text: "hello", Vector: []float32{0.5, -1.5}, Metadata: `{"x":1}`,
	})
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "siftgate:products:a" {
			t.Errorf("key: got %q", key)
		}
		return stored, nil
	}

	rec, err := repo.Get(context.Background(), "products", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Text != "hello" || rec.Metadata != `{"x":1}` {
		t.Errorf("record: got %+v", rec)
	}
	if len(rec.Vector) != 2 || rec.Vector[0] != 0.5 || rec.Vector[1] != -1.5 {
		t.Errorf("vector: got %v", rec.Vector)
	}
}

func TestGet_Missing(t *testing.T) {
	repo, _ := newTestRepo(t)

	rec, err := repo.Get(context.Background(), "products", "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != "" {
		t.Errorf("expected empty record, got %+v", rec)
	}
}

func TestDelete_Keys(t *testing.T) {
	repo, ms := newTestRepo(t)

	var got []string
	ms.delFn = func(_ context.Context, keys ...string) error {
		got = keys
		return nil
	}

	if err := repo.Delete(context.Background(), "products", []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "siftgate:products:a" || got[1] != "siftgate:products:b" {
		t.Errorf("deleted keys: got %v", got)
	}
}

func TestDelete_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)

	var called bool
	ms.delFn = func(_ context.Context, _ ...string) error {
		called = true
		return nil
	}

	if err := repo.Delete(context.Background(), "products", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("Del must not be called for an empty id list")
	}
}

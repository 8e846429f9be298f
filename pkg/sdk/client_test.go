package siftgate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_HybridSearch(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/hybrid-search" {
			t.Errorf("path = %s, want /hybrid-search", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("auth header = %q, want Bearer secret", got)
		}

		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Table != "products" || req.Query != "carbon" {
			t.Errorf("request = %+v", req)
		}
		if req.Limit == nil || *req.Limit != 5 {
			t.Errorf("limit = %v, want 5", req.Limit)
		}
		if req.Alpha == nil || *req.Alpha != 0.3 {
			t.Errorf("alpha = %v, want 0.3", req.Alpha)
		}

		_ = json.NewEncoder(w).Encode(searchResponse{
			Status: "success",
			Table:  "products",
			Results: []Result{
				{ID: "p-1", Score: 1.0, Text: "carbon fiber stock"},
			},
			Count: 1,
		})
	})

	client := New(ts.URL, WithAPIKey("secret"))
	results, err := client.HybridSearch(context.Background(), "products", "carbon",
		WithLimit(5), WithAlpha(0.3))
	if err != nil {
		t.Fatalf("HybridSearch: %v", err)
	}
	if len(results) != 1 || results[0].ID != "p-1" {
		t.Errorf("results = %+v, want single p-1", results)
	}
}

func TestClient_Insert(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/insert" {
			t.Errorf("path = %s, want /insert", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(insertResponse{Status: "success", InsertedCount: 2})
	})

	client := New(ts.URL)
	count, err := client.Insert(context.Background(), "products", []map[string]any{
		{"text": "one"}, {"text": "two"},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestClient_TableNotFound(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "table_not_found",
			"message": "table not found",
		})
	})

	client := New(ts.URL)
	_, err := client.Delete(context.Background(), "missing", []string{"x"})
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("err = %v, want ErrTableNotFound", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Code != "table_not_found" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClient_Unauthorized(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "unauthorized",
			"message": "invalid api key",
		})
	})

	client := New(ts.URL, WithAPIKey("wrong"))
	_, err := client.Tables(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestClient_CreateTable(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createTableResponse{Status: "success", Created: true})
	})

	client := New(ts.URL)
	created, err := client.CreateTable(context.Background(), "products")
	if err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
}

func TestClient_Chat(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "gpt-4o" {
			t.Errorf("model = %q, want gpt-4o", req.Model)
		}
		if req.MaxTokens == nil || *req.MaxTokens != 200 {
			t.Errorf("max_tokens = %v, want 200", req.MaxTokens)
		}
		_ = json.NewEncoder(w).Encode(chatResponse{Status: "success", Response: "hi"})
	})

	client := New(ts.URL)
	text, err := client.Chat(context.Background(),
		[]Message{{Role: "user", Content: "hello"}},
		WithModel("gpt-4o"), WithMaxTokens(200))
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if text != "hi" {
		t.Errorf("text = %q, want hi", text)
	}
}

func TestClient_Synthesize(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tts" {
			t.Errorf("path = %s, want /tts", r.URL.Path)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	})

	client := New(ts.URL)
	audio, err := client.Synthesize(context.Background(), SpeechRequest{Text: "hello"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" {
		t.Errorf("audio = %q, want mp3-bytes", audio)
	}
}

func TestClient_HealthDegraded(t *testing.T) {
	ts := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthReport{
			Status: "degraded",
			Checks: map[string]string{"store": "error"},
		})
	})

	client := New(ts.URL)
	report, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if report.Status != "degraded" || report.Checks["store"] != "error" {
		t.Errorf("report = %+v", report)
	}
}

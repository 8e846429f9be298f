// Package siftgate provides a Go client for the siftgate admin retrieval API.
//
//	client := siftgate.New("http://localhost:8000", siftgate.WithAPIKey("secret"))
//	_, _ = client.Insert(ctx, "products", []map[string]any{
//	    {"id": "p-1", "text": "carbon fiber stock", "sku": "CF-1"},
//	})
//	results, _ := client.HybridSearch(ctx, "products", "carbon stock",
//	    siftgate.WithLimit(5), siftgate.WithAlpha(0.3))
package siftgate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client talks to a siftgate server over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchOption tunes a search call.
type SearchOption func(*searchParams)

type searchParams struct {
	limit *int
	alpha *float64
}

// WithLimit caps the number of results.
func WithLimit(n int) SearchOption {
	return func(p *searchParams) { p.limit = &n }
}

// WithAlpha sets the keyword weight for hybrid search (0 = pure vector,
// 1 = pure keyword).
func WithAlpha(a float64) SearchOption {
	return func(p *searchParams) { p.alpha = &a }
}

// Search runs a pure vector similarity query.
func (c *Client) Search(ctx context.Context, table, query string, opts ...SearchOption) ([]Result, error) {
	return c.doSearch(ctx, "/search", table, query, opts)
}

// HybridSearch runs a fused vector + keyword query.
func (c *Client) HybridSearch(ctx context.Context, table, query string, opts ...SearchOption) ([]Result, error) {
	return c.doSearch(ctx, "/hybrid-search", table, query, opts)
}

func (c *Client) doSearch(ctx context.Context, path, table, query string, opts []SearchOption) ([]Result, error) {
	var p searchParams
	for _, o := range opts {
		o(&p)
	}

	var resp searchResponse
	err := c.post(ctx, path, searchRequest{
		Table: table,
		Query: query,
		Limit: p.limit,
		Alpha: p.alpha,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Insert embeds and writes documents into a table, creating it on first use.
// Returns the number of documents written.
func (c *Client) Insert(ctx context.Context, table string, documents []map[string]any) (int, error) {
	var resp insertResponse
	err := c.post(ctx, "/insert", insertRequest{Table: table, Documents: documents}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.InsertedCount, nil
}

// Delete removes documents by id.
func (c *Client) Delete(ctx context.Context, table string, ids []string) (int, error) {
	var resp deleteResponse
	err := c.post(ctx, "/delete", deleteRequest{Table: table, IDs: ids}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.DeletedCount, nil
}

// Tables lists every known table.
func (c *Client) Tables(ctx context.Context) ([]string, error) {
	var resp listTablesResponse
	if err := c.get(ctx, "/tables", &resp); err != nil {
		return nil, err
	}
	return resp.Tables, nil
}

// CreateTable creates a table explicitly. Returns false when it already existed.
func (c *Client) CreateTable(ctx context.Context, table string) (bool, error) {
	var resp createTableResponse
	err := c.post(ctx, "/tables", createTableRequest{Table: table}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Created, nil
}

// Chat runs a chat completion through the configured provider.
func (c *Client) Chat(ctx context.Context, messages []Message, opts ...ChatOption) (string, error) {
	req := chatRequest{Messages: messages}
	for _, o := range opts {
		o(&req)
	}

	var resp chatResponse
	if err := c.post(ctx, "/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Agent runs a message through a named assistant persona.
func (c *Client) Agent(ctx context.Context, agentType, message string, agentCtx map[string]any) (string, error) {
	var resp agentResponse
	err := c.post(ctx, "/agent", agentRequest{
		AgentType: agentType,
		Message:   message,
		Context:   agentCtx,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Synthesize converts text to audio and returns the raw bytes.
func (c *Client) Synthesize(ctx context.Context, req SpeechRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("siftgate: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("siftgate: build request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("siftgate: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Health reports the server's component status.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var resp HealthReport
	if err := c.get(ctx, "/health", &resp); err != nil {
		return HealthReport{}, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("siftgate: marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("siftgate: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("siftgate: request failed: %w", err)
	}
	defer resp.Body.Close()

	// /health responds 503 with a decodable body when degraded
	if resp.StatusCode != http.StatusOK && path != "/health" && resp.StatusCode != http.StatusCreated {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("siftgate: decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

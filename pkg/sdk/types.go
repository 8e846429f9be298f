package siftgate

// Result is one ranked search hit.
type Result struct {
	ID       string  `json:"id"`
	Score    float64 `json:"_score"`
	Text     string  `json:"text"`
	Metadata any     `json:"metadata,omitempty"`
}

// Message is one turn in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOption tunes a chat call.
type ChatOption func(*chatRequest)

// WithModel overrides the server's default chat model.
func WithModel(model string) ChatOption {
	return func(r *chatRequest) { r.Model = model }
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ChatOption {
	return func(r *chatRequest) { r.MaxTokens = &n }
}

// SpeechRequest describes a text-to-speech call.
type SpeechRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice,omitempty"`
	Model  string  `json:"model,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
	Format string  `json:"response_format,omitempty"`
}

// HealthReport is the server's component status. Each check is one of
// "ok", "error" or "not_configured".
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Wire shapes mirroring the server's request/response contract.

type searchRequest struct {
	Table string   `json:"table"`
	Query string   `json:"query"`
	Limit *int     `json:"limit,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
}

type searchResponse struct {
	Status  string   `json:"status"`
	Table   string   `json:"table"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

type insertRequest struct {
	Table     string           `json:"table"`
	Documents []map[string]any `json:"documents"`
}

type insertResponse struct {
	Status        string `json:"status"`
	InsertedCount int    `json:"inserted_count"`
}

type deleteRequest struct {
	Table string   `json:"table"`
	IDs   []string `json:"ids"`
}

type deleteResponse struct {
	Status       string `json:"status"`
	DeletedCount int    `json:"deleted_count"`
}

type createTableRequest struct {
	Table string `json:"table"`
}

type createTableResponse struct {
	Status  string `json:"status"`
	Created bool   `json:"created"`
}

type listTablesResponse struct {
	Status string   `json:"status"`
	Tables []string `json:"tables"`
}

type chatRequest struct {
	Messages  []Message `json:"messages"`
	Model     string    `json:"model,omitempty"`
	MaxTokens *int      `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Status   string `json:"status"`
	Model    string `json:"model"`
	Response string `json:"response"`
}

type agentRequest struct {
	AgentType string         `json:"agent_type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}

type agentResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

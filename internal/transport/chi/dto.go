package chi

import "github.com/harborline/siftgate/internal/domain"

// Request/response shapes for the admin API. Field names follow the wire
// contract the dashboard frontend already speaks.

type searchRequest struct {
	Table string   `json:"table"`
	Query string   `json:"query"`
	Limit *int     `json:"limit,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
}

type searchResponse struct {
	Status  string               `json:"status"`
	Table   string               `json:"table"`
	Results []domain.FusedResult `json:"results"`
	Count   int                  `json:"count"`
}

type insertRequest struct {
	Table     string           `json:"table"`
	Documents []map[string]any `json:"documents"`
}

type insertResponse struct {
	Status        string `json:"status"`
	Table         string `json:"table"`
	InsertedCount int    `json:"inserted_count"`
}

type deleteRequest struct {
	Table string   `json:"table"`
	IDs   []string `json:"ids"`
}

type deleteResponse struct {
	Status       string `json:"status"`
	Table        string `json:"table"`
	DeletedCount int    `json:"deleted_count"`
}

type createTableRequest struct {
	Table string `json:"table"`
}

type createTableResponse struct {
	Status  string `json:"status"`
	Table   string `json:"table"`
	Created bool   `json:"created"`
}

type listTablesResponse struct {
	Status string   `json:"status"`
	Tables []string `json:"tables"`
}

type chatRequest struct {
	Messages    []domain.ChatMessage `json:"messages"`
	Model       string               `json:"model,omitempty"`
	MaxTokens   *int                 `json:"max_tokens,omitempty"`
	Temperature *float32             `json:"temperature,omitempty"`
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
	Model     string         `json:"model,omitempty"`
}

type agentResponse struct {
	Status    string `json:"status"`
	AgentType string `json:"agent_type"`
	Model     string `json:"model"`
	Response  string `json:"response"`
}

type ttsRequest struct {
	Text   string  `json:"text"`
	Voice  string  `json:"voice,omitempty"`
	Model  string  `json:"model,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
	Format string  `json:"response_format,omitempty"`
}

type ttsBase64Response struct {
	Status      string `json:"status"`
	Format      string `json:"format"`
	Voice       string `json:"voice"`
	AudioBase64 string `json:"audio_base64"`
}

type transcribeBase64Request struct {
	AudioBase64 string `json:"audio_base64"`
	Filename    string `json:"filename,omitempty"`
	Language    string `json:"language,omitempty"`
}

type transcribeResponse struct {
	Status   string `json:"status"`
	Text     string `json:"text"`
	Filename string `json:"filename,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

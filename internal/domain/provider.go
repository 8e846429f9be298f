package domain

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions tunes a single completion call.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// SpeechRequest describes a text-to-speech synthesis call.
type SpeechRequest struct {
	Text   string
	Voice  string
	Model  string
	Speed  float64
	Format string
}

package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
	"github.com/harborline/siftgate/internal/metrics"
)

// ChatProvider routes completions to an OpenAI-compatible chat API. The base
// URL may point at an aggregator (OpenRouter-style) rather than OpenAI itself.
type ChatProvider struct {
	client *openai.Client
	logger *zap.Logger
}

// ChatConfig holds the chat provider settings.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Logger  *zap.Logger
}

// NewChatProvider creates an OpenAI-compatible chat provider.
func NewChatProvider(cfg *ChatConfig) *ChatProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &ChatProvider{
		client: openai.NewClientWithConfig(clientCfg),
		logger: cfg.Logger,
	}
}

// Complete implements usecase/chat.Provider.
func (p *ChatProvider) Complete(
	ctx context.Context, messages []domain.ChatMessage, opts domain.ChatOptions,
) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       opts.Model,
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("chat", opts.Model, "error").Inc()
		return "", parseAPIError("chat", err, domain.ErrChatProviderError)
	}

	if len(resp.Choices) == 0 {
		metrics.ProviderRequestsTotal.WithLabelValues("chat", opts.Model, "error").Inc()
		return "", fmt.Errorf("empty chat response: %w", domain.ErrChatProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("chat", opts.Model, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("chat", opts.Model).Observe(duration.Seconds())

	return resp.Choices[0].Message.Content, nil
}

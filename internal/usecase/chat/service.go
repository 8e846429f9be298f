// Package chat routes completions to the chat provider and implements the
// built-in admin agents.
package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harborline/siftgate/internal/domain"
)

// Agent defaults match what the admin dashboard's agents were tuned with.
const (
	agentMaxTokens   = 1500
	agentTemperature = 0.7
)

// agentPrompts maps agent type to its system prompt. Unknown types fall back
// to fallbackPrompt.
var agentPrompts = map[string]string{
	"admin_assistant": `You are an AI assistant for the admin dashboard.
You help administrators manage orders, products, partners, and business operations.
Be concise, professional, and helpful. Provide actionable insights when possible.`,

	"order_processor": `You are an order processing assistant.
Help analyze orders, suggest status updates, identify issues, and provide shipping recommendations.
Focus on efficiency and accuracy.`,

	"analytics": `You are a business analytics assistant.
Analyze sales data, identify trends, provide insights on revenue, popular products, and partner performance.
Present data clearly and suggest actionable improvements.`,

	"products": `You are a product management assistant.
Help with product descriptions, pricing suggestions, inventory management, and category organization.`,
}

const fallbackPrompt = "You are a helpful assistant for the admin dashboard."

// Provider is the downstream chat completion API.
type Provider interface {
	Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.ChatOptions) (string, error)
}

// Service handles chat completion and agent runs.
type Service struct {
	provider     Provider
	defaultModel string
	configured   bool
}

// New creates a chat service. configured=false makes every call fail fast
// with ErrProviderNotConfigured instead of hitting the network.
func New(provider Provider, defaultModel string, configured bool) *Service {
	return &Service{provider: provider, defaultModel: defaultModel, configured: configured}
}

// Configured reports whether a chat provider key is present.
func (s *Service) Configured() bool {
	return s.configured
}

// DefaultModel returns the model used when a request names none.
func (s *Service) DefaultModel() string {
	return s.defaultModel
}

// Complete runs one completion and returns the assistant text.
func (s *Service) Complete(
	ctx context.Context, messages []domain.ChatMessage, opts domain.ChatOptions,
) (string, error) {
	if !s.configured {
		return "", fmt.Errorf("chat: %w", domain.ErrProviderNotConfigured)
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("messages are required: %w", domain.ErrInvalidArgument)
	}
	if opts.Model == "" {
		opts.Model = s.defaultModel
	}

	text, err := s.provider.Complete(ctx, messages, opts)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return text, nil
}

// RunAgent selects the agent's system prompt, appends the caller's context
// document to it, and runs a single-turn completion.
func (s *Service) RunAgent(
	ctx context.Context, agentType, message string, contextDoc map[string]any, model string,
) (string, error) {
	if !s.configured {
		return "", fmt.Errorf("chat: %w", domain.ErrProviderNotConfigured)
	}
	if message == "" {
		return "", fmt.Errorf("message is required: %w", domain.ErrInvalidArgument)
	}

	prompt, ok := agentPrompts[agentType]
	if !ok {
		prompt = fallbackPrompt
	}

	if len(contextDoc) > 0 {
		ctxJSON, err := json.MarshalIndent(contextDoc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode agent context: %w: %w", domain.ErrInvalidArgument, err)
		}
		prompt += "\n\nCurrent context:\n" + string(ctxJSON)
	}

	if model == "" {
		model = s.defaultModel
	}

	messages := []domain.ChatMessage{
		{Role: "system", Content: prompt},
		{Role: "user", Content: message},
	}

	text, err := s.provider.Complete(ctx, messages, domain.ChatOptions{
		Model:       model,
		MaxTokens:   agentMaxTokens,
		Temperature: agentTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("agent completion: %w", err)
	}
	return text, nil
}

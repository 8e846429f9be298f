package openai

import (
	"context"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/harborline/siftgate/internal/domain"
	"github.com/harborline/siftgate/internal/metrics"
)

// SpeechProvider routes text-to-speech and transcription to the OpenAI audio API.
type SpeechProvider struct {
	client          *openai.Client
	transcribeModel string
	logger          *zap.Logger
}

// SpeechConfig holds the speech provider settings.
type SpeechConfig struct {
	APIKey          string
	BaseURL         string
	TranscribeModel string
	Logger          *zap.Logger
}

// NewSpeechProvider creates an OpenAI speech provider.
func NewSpeechProvider(cfg *SpeechConfig) *SpeechProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &SpeechProvider{
		client:          openai.NewClientWithConfig(clientCfg),
		transcribeModel: cfg.TranscribeModel,
		logger:          cfg.Logger,
	}
}

// Synthesize implements usecase/speech.Provider.
func (p *SpeechProvider) Synthesize(ctx context.Context, req domain.SpeechRequest) ([]byte, error) {
	start := time.Now()

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(req.Model),
		Input:          req.Text,
		Voice:          openai.SpeechVoice(req.Voice),
		ResponseFormat: openai.SpeechResponseFormat(req.Format),
		Speed:          req.Speed,
	})
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("tts", req.Model, "error").Inc()
		return nil, parseAPIError("tts", err, domain.ErrSpeechProviderError)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("tts", req.Model, "error").Inc()
		return nil, fmt.Errorf("read audio stream: %v: %w", err, domain.ErrSpeechProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("tts", req.Model, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("tts", req.Model).Observe(time.Since(start).Seconds())

	return audio, nil
}

// Transcribe implements usecase/speech.Provider. filename carries the format
// hint (extension); the audio itself streams from the reader.
func (p *SpeechProvider) Transcribe(
	ctx context.Context, filename string, audio io.Reader, language string,
) (string, error) {
	start := time.Now()

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.transcribeModel,
		FilePath: filename,
		Reader:   audio,
		Language: language,
	})
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("transcribe", p.transcribeModel, "error").Inc()
		return "", parseAPIError("transcribe", err, domain.ErrSpeechProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("transcribe", p.transcribeModel, "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("transcribe", p.transcribeModel).
		Observe(time.Since(start).Seconds())

	return resp.Text, nil
}

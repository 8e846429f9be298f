// Package speech routes text-to-speech and transcription to the speech provider.
package speech

import (
	"context"
	"fmt"
	"io"

	"github.com/harborline/siftgate/internal/domain"
)

const (
	defaultVoice  = "alloy"
	defaultSpeed  = 1.0
	defaultFormat = "mp3"

	// DefaultAudioFilename is used when a base64 transcription request names
	// no file; the extension drives provider-side format detection.
	DefaultAudioFilename = "audio.mp3"
)

// validFormats lists the synthesis output formats the provider accepts.
var validFormats = map[string]bool{
	"mp3":  true,
	"opus": true,
	"aac":  true,
	"flac": true,
}

// Provider is the downstream speech API.
type Provider interface {
	Synthesize(ctx context.Context, req domain.SpeechRequest) ([]byte, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (string, error)
}

// Service handles synthesis and transcription.
type Service struct {
	provider        Provider
	ttsModel        string
	transcribeModel string
	configured      bool
}

// New creates a speech service.
func New(provider Provider, ttsModel, transcribeModel string, configured bool) *Service {
	return &Service{
		provider:        provider,
		ttsModel:        ttsModel,
		transcribeModel: transcribeModel,
		configured:      configured,
	}
}

// Configured reports whether a speech provider key is present.
func (s *Service) Configured() bool {
	return s.configured
}

// Synthesize converts text to audio bytes, applying voice/model/speed/format
// defaults for any zero field.
func (s *Service) Synthesize(ctx context.Context, req domain.SpeechRequest) ([]byte, error) {
	if !s.configured {
		return nil, fmt.Errorf("speech: %w", domain.ErrProviderNotConfigured)
	}
	if req.Text == "" {
		return nil, fmt.Errorf("text is required: %w", domain.ErrInvalidArgument)
	}

	if req.Voice == "" {
		req.Voice = defaultVoice
	}
	if req.Model == "" {
		req.Model = s.ttsModel
	}
	if req.Speed == 0 {
		req.Speed = defaultSpeed
	}
	if req.Format == "" {
		req.Format = defaultFormat
	}
	if !validFormats[req.Format] {
		return nil, fmt.Errorf("unsupported format %q: %w", req.Format, domain.ErrInvalidArgument)
	}

	audio, err := s.provider.Synthesize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}
	return audio, nil
}

// Transcribe converts audio to text. language is optional; empty means
// provider auto-detection.
func (s *Service) Transcribe(
	ctx context.Context, filename string, audio io.Reader, language string,
) (string, error) {
	if !s.configured {
		return "", fmt.Errorf("speech: %w", domain.ErrProviderNotConfigured)
	}
	if audio == nil {
		return "", fmt.Errorf("audio is required: %w", domain.ErrInvalidArgument)
	}
	if filename == "" {
		filename = DefaultAudioFilename
	}

	text, err := s.provider.Transcribe(ctx, filename, audio, language)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return text, nil
}

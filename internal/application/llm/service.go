package llm

import (
	"context"
	"errors"
	"strings"

	"ngo-connect-backend/internal/pkg/metrics"

	"github.com/rs/zerolog/log"
)

var (
	ErrMissingFields = errors.New("Missing required fields: prompt and/or section")
	ErrNotConfigured = errors.New("API key not configured")
	ErrProvider      = errors.New("Anthropic API error")
	ErrEmptyResponse = errors.New("Content generation failed")
)

// Completer generates text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service proxies proposal-writing prompts to the language model.
// A nil Client means no API key was configured.
type Service struct {
	Client Completer
}

type GenerateInput struct {
	Prompt  string `json:"prompt"`
	Section string `json:"section"`
}

type GenerateResult struct {
	Content string `json:"content"`
	Section string `json:"section"`
}

func (s *Service) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	if strings.TrimSpace(in.Prompt) == "" || strings.TrimSpace(in.Section) == "" {
		return nil, ErrMissingFields
	}
	if s.Client == nil {
		return nil, ErrNotConfigured
	}
	log.Info().Str("section", in.Section).Msg("generating content")
	content, err := s.Client.Complete(ctx, in.Prompt)
	metrics.ObserveProvider(metrics.ProviderLLM, err)
	if err != nil {
		log.Error().Err(err).Str("section", in.Section).Msg("llm request failed")
		return nil, ErrProvider
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyResponse
	}
	return &GenerateResult{Content: content, Section: in.Section}, nil
}

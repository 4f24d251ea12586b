package storegen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aktagon/llmkit/anthropic"
	"github.com/aktagon/llmkit/anthropic/types"
	"google.golang.org/genai"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var (
	ErrUnknownProvider = errors.New("unknown generator provider")
	ErrMissingAPIKey   = errors.New("generator API key is not set")
	ErrEmptyResponse   = errors.New("provider returned no content")
)

// Provider turns a system and user prompt into a JSON draft.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

type ProviderConfig struct {
	Name        string
	Model       string
	MaxTokens   int
	Temperature float64
	APIKey      string
}

func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case ProviderAnthropic, "":
		return NewAnthropicProvider(cfg), nil
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Name)
	}
}

type AnthropicProvider struct {
	apiKey   string
	settings types.RequestSettings
}

func NewAnthropicProvider(cfg ProviderConfig) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey: cfg.APIKey,
		settings: types.RequestSettings{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		},
	}
}

func (p *AnthropicProvider) Name() string { return ProviderAnthropic + "/" + p.settings.Model }

// Complete asks for structured output against the draft schema. The client
// call itself cannot be interrupted; cancellation abandons its result.
func (p *AnthropicProvider) Complete(ctx context.Context, system, user string) (string, error) {
	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		resp, err := anthropic.PromptWithSettings(system, user, draftSchema, p.apiKey, p.settings)
		if err != nil {
			done <- result{err: fmt.Errorf("anthropic prompt: %w", err)}
			return
		}
		if len(resp.Content) == 0 {
			done <- result{err: ErrEmptyResponse}
			return
		}
		done <- result{text: resp.Content[0].Text}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.text, r.err
	}
}

type GeminiProvider struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
}

func NewGeminiProvider(ctx context.Context, cfg ProviderConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiProvider{
		client:      client,
		model:       model,
		maxTokens:   int32(cfg.MaxTokens),
		temperature: float32(cfg.Temperature),
	}, nil
}

func (p *GeminiProvider) Name() string { return ProviderGemini + "/" + p.model }

func (p *GeminiProvider) Complete(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system+"\n\nJSON schema:\n"+draftSchema, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(p.temperature),
	}
	if p.maxTokens > 0 {
		config.MaxOutputTokens = p.maxTokens
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyAPIKey is returned when the API key is missing.
var ErrEmptyAPIKey = errors.New("API key cannot be empty")

// OpenAIConfig holds the configuration for the OpenAI adapter.
type OpenAIConfig struct {
	// APIKey is the OpenAI API key.
	APIKey string
	// Model is the chat model, e.g. "gpt-4o-mini".
	Model string
	// BaseURL overrides the API endpoint (for proxies and testing).
	BaseURL string
}

// OpenAI implements Completer using the OpenAI chat completion API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates the adapter. A missing API key is a construction-time
// failure; there is no lazy validation.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}, nil
}

// Complete sends the prompt as a single user message and returns the first
// choice. One attempt per call; the caller owns fallback behavior.
func (o *OpenAI) Complete(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		log.Error().Err(err).Str("model", o.model).Msg("chat completion failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Completer = (*OpenAI)(nil)

package synth

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"navigator/internal/domain"
)

// OpenAISynthesizer answers through an OpenAI-compatible chat completion
// endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISynthesizer(apiKey, model, baseURL string) *OpenAISynthesizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAISynthesizer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (o *OpenAISynthesizer) Synthesize(ctx context.Context, question string, fragments []domain.Fragment) (string, error) {
	system, user, err := BuildPrompt(question, fragments)
	if err != nil {
		return "", err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", domain.ErrNoContent
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", &domain.ContentBlockedError{Reason: string(choice.FinishReason)}
	}
	if choice.Message.Refusal != "" {
		return "", &domain.ContentBlockedError{Reason: choice.Message.Refusal}
	}
	if choice.Message.Content == "" {
		return "", domain.ErrNoContent
	}
	return choice.Message.Content, nil
}

func (o *OpenAISynthesizer) ModelName() string {
	return o.model
}

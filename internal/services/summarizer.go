package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const summaryPrompt = "Summarize the following notes for a college student:\n\n"

// Summarizer condenses free text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// OpenAISummarizer calls an OpenAI-compatible chat completion endpoint.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer creates a summarizer. An empty baseURL targets the
// OpenAI API.
func NewOpenAISummarizer(apiKey, baseURL, model string) *OpenAISummarizer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, text string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: summaryPrompt + text,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("empty summary in completion response")
	}
	return summary, nil
}

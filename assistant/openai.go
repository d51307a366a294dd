// ABOUTME: OpenAI chat-completions backend for the assistant
// ABOUTME: Sends the CRM summary as the system prompt and returns the first choice
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/models"
	"github.com/sashabaranov/go-openai"
)

const openAITimeout = 30 * time.Second

// OpenAI asks a chat-completions model.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a backend. baseURL overrides the API root when non-empty.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Ask(ctx context.Context, input string, contacts []models.Contact) string {
	reply, err := o.complete(ctx, input, contacts)
	if err != nil {
		log.Printf("[assistant] openai request failed: %v", err)
		return ApologyReply
	}
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}

func (o *OpenAI) complete(ctx context.Context, input string, contacts []models.Contact) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, openAITimeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: SystemPrompt(contacts),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input,
			},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// ABOUTME: Chat webhook backend for the assistant (workflow tools such as n8n)
// ABOUTME: Posts {chatInput} and reads the reply from output, text, or response
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/harperreed/leadbook/models"
)

// Webhook posts questions to a chat workflow endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook creates a backend. A nil client gets a 30 second timeout.
func NewWebhook(url string, client *http.Client) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Webhook{url: url, client: client}
}

type webhookRequest struct {
	ChatInput string `json:"chatInput"`
	Context   string `json:"context,omitempty"`
}

type webhookReply struct {
	Output   string `json:"output"`
	Text     string `json:"text"`
	Response string `json:"response"`
}

func (w *Webhook) Ask(ctx context.Context, input string, contacts []models.Contact) string {
	reply, err := w.send(ctx, input, contacts)
	if err != nil {
		log.Printf("[assistant] webhook request failed: %v", err)
		return ApologyReply
	}

	for _, candidate := range []string{reply.Output, reply.Text, reply.Response} {
		if candidate != "" {
			return candidate
		}
	}
	return EmptyReply
}

func (w *Webhook) send(ctx context.Context, input string, contacts []models.Contact) (*webhookReply, error) {
	body, err := json.Marshal(webhookRequest{ChatInput: input, Context: BuildContext(contacts)})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var reply webhookReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode reply: %w", err)
	}
	return &reply, nil
}

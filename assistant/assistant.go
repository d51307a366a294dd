// ABOUTME: Chat assistant that answers questions about the agent's leads
// ABOUTME: Picks OpenAI chat completions or a chat webhook based on config
package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/models"
)

// Canned replies. The assistant never returns an error to its caller.
const (
	NotConfiguredReply = "The assistant is not configured. Set OPENAI_API_KEY or a chat webhook URL and try again."
	ApologyReply       = "There was an error connecting to the AI Assistant. Please check your settings and try again."
	EmptyReply         = "I'm sorry, I couldn't generate a response."
)

// Assistant answers free-text questions with the contact list as context.
type Assistant interface {
	Ask(ctx context.Context, input string, contacts []models.Contact) string
}

// New returns the assistant the config enables. OpenAI wins when both are set.
func New(cfg *config.Config) Assistant {
	if !config.IsPlaceholder(cfg.OpenAIKey) {
		return NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel, "")
	}
	if !config.IsPlaceholder(cfg.ChatWebhookURL) {
		return NewWebhook(cfg.ChatWebhookURL, nil)
	}
	return Unconfigured{}
}

// Unconfigured answers every question with NotConfiguredReply.
type Unconfigured struct{}

func (Unconfigured) Ask(ctx context.Context, input string, contacts []models.Contact) string {
	return NotConfiguredReply
}

// BuildContext summarizes contacts for the system prompt, one line each.
func BuildContext(contacts []models.Contact) string {
	if len(contacts) == 0 {
		return "No clients in the database yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current CRM Database (%d clients):", len(contacts))
	for _, c := range contacts {
		fmt.Fprintf(&b, "\n- %s: %s, %s, %s", c.Name, c.Status, c.City, c.Phone)
		if c.Notes != "" {
			fmt.Fprintf(&b, ", Notes: %s", c.Notes)
		}
		if c.FollowUpDate != "" {
			fmt.Fprintf(&b, ", Follow-up: %s %s %s", c.FollowUpType, c.FollowUpDate, c.FollowUpTime)
		}
	}
	return b.String()
}

// SystemPrompt frames the model as the agent's CRM assistant.
func SystemPrompt(contacts []models.Contact) string {
	return `You are an intelligent CRM assistant for a real estate business. You help real estate agents manage their leads, schedule follow-ups, and provide insights about their clients.

` + BuildContext(contacts) + `

You can help with:
- Finding and filtering clients by status, location, or other criteria
- Scheduling follow-ups and reminders
- Drafting messages for clients
- Analyzing client data and providing insights
- Suggesting next best actions for leads

Be concise, professional, and proactive in your suggestions.`
}

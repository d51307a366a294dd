// ABOUTME: MCP prompt handlers for reusable CRM workflow templates
// ABOUTME: Provides client summary, follow-up planning, and pipeline review prompts
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadbook/assistant"
	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	session *crm.Session
	now     func() time.Time
}

func NewPromptHandlers(session *crm.Session) *PromptHandlers {
	return &PromptHandlers{session: session, now: time.Now}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	h.session.Load(ctx)

	switch request.Params.Name {
	case "client-summary":
		return h.getClientSummaryPrompt(request.Params.Arguments)
	case "follow-up-plan":
		return h.getFollowUpPlanPrompt()
	case "pipeline-review":
		return h.getPipelineReviewPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getClientSummaryPrompt(args map[string]string) (*mcp.GetPromptResult, error) {
	id, ok := args["client_id"]
	if !ok || id == "" {
		return nil, fmt.Errorf("client_id is required")
	}

	c, found := h.session.Contact(id)
	if !found {
		return nil, fmt.Errorf("client not found: %s", id)
	}

	var promptText strings.Builder
	promptText.WriteString(fmt.Sprintf("Summarize this real-estate client: %s\n\n", c.Name))
	writeField(&promptText, "Status", string(c.Status))
	writeField(&promptText, "Phone", c.Phone)
	writeField(&promptText, "Email", c.Email)
	writeField(&promptText, "Profession", c.Profession)
	writeField(&promptText, "City", c.City)
	writeField(&promptText, "Location", c.Location)
	writeField(&promptText, "Project", c.ProjectName)
	writeField(&promptText, "Property type", c.PropertyType)
	writeField(&promptText, "Budget", c.BudgetRange)
	writeField(&promptText, "Follow-up", strings.TrimSpace(strings.Join([]string{c.FollowUpDate, c.FollowUpTime, c.FollowUpType}, " ")))
	writeField(&promptText, "Notes", c.Notes)
	promptText.WriteString("\nSuggest the next step to move this client forward in the pipeline.")

	return userPrompt(fmt.Sprintf("Summary for client: %s", c.Name), promptText.String()), nil
}

func (h *PromptHandlers) getFollowUpPlanPrompt() (*mcp.GetPromptResult, error) {
	contacts := h.session.Contacts()
	stats := viz.ComputeStats(contacts, h.now())

	var promptText strings.Builder
	promptText.WriteString("Plan my follow-ups for the coming days.\n\n")

	if len(stats.Upcoming) > 0 {
		promptText.WriteString("Scheduled:\n")
		for _, f := range stats.Upcoming {
			promptText.WriteString(fmt.Sprintf("  - %s %s %s with %s (%s)\n",
				f.Date.Format("2006-01-02"), f.Time, f.Type, f.Name, f.Status))
		}
		promptText.WriteString("\n")
	}

	var unscheduled []string
	for _, c := range contacts {
		if c.FollowUpDate == "" && (c.Status == models.StatusHot || c.Status == models.StatusFollowUp) {
			unscheduled = append(unscheduled, c.Name)
		}
	}
	if len(unscheduled) > 0 {
		promptText.WriteString(fmt.Sprintf("Hot or follow-up clients with nothing scheduled: %s\n\n", strings.Join(unscheduled, ", ")))
	}

	promptText.WriteString("Suggest who to contact first and how (call, meeting or visit).")

	return userPrompt("Follow-up plan", promptText.String()), nil
}

func (h *PromptHandlers) getPipelineReviewPrompt() (*mcp.GetPromptResult, error) {
	contacts := h.session.Contacts()

	var promptText strings.Builder
	promptText.WriteString("Review my sales pipeline.\n\n")
	promptText.WriteString(assistant.BuildContext(contacts))
	promptText.WriteString("\n\n")
	promptText.WriteString(viz.RenderDashboard(viz.ComputeStats(contacts, h.now())))
	promptText.WriteString("\nWhere are leads stalling, and which clients are closest to closing?")

	return userPrompt("Pipeline review", promptText.String()), nil
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(fmt.Sprintf("%s: %s\n", label, value))
}

func userPrompt(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: text,
				},
			},
		},
	}
}

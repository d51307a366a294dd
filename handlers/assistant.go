// ABOUTME: Assistant and sync status MCP handlers
// ABOUTME: Provides ask_assistant and sync_status tools
package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type AssistantHandlers struct {
	session *crm.Session
	history crm.History
}

// NewAssistantHandlers wires the assistant tools. history may be nil.
func NewAssistantHandlers(session *crm.Session, history crm.History) *AssistantHandlers {
	return &AssistantHandlers{session: session, history: history}
}

type AskAssistantInput struct {
	Question string `json:"question" jsonschema:"Question about the client list (required)"`
}

type AskAssistantOutput struct {
	Reply string `json:"reply"`
}

func (h *AssistantHandlers) AskAssistant(ctx context.Context, request *mcp.CallToolRequest, input AskAssistantInput) (*mcp.CallToolResult, AskAssistantOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskAssistantOutput{}, fmt.Errorf("question is required")
	}

	h.session.Load(ctx)
	return nil, AskAssistantOutput{Reply: h.session.Ask(ctx, input.Question)}, nil
}

type SyncStatusInput struct {
	Reload bool `json:"reload,omitempty" jsonschema:"Discard the current list and load again from the remote"`
	Limit  int  `json:"limit,omitempty" jsonschema:"Number of journal entries to include (default 10)"`
}

type SyncStatusOutput struct {
	State      string         `json:"state"`
	Source     string         `json:"source,omitempty"`
	Clients    int            `json:"clients"`
	Diagnostic string         `json:"diagnostic,omitempty"`
	Trace      []string       `json:"trace,omitempty"`
	Services   []ServiceState `json:"services,omitempty"`
	Recent     []JournalEntry `json:"recent,omitempty"`
}

// ServiceState mirrors models.SyncState with timestamps as RFC 3339 text.
type ServiceState struct {
	Service      string `json:"service"`
	Status       string `json:"status"`
	LastSyncTime string `json:"last_sync_time,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type JournalEntry struct {
	Service   string `json:"service"`
	Action    string `json:"action"`
	ClientID  string `json:"client_id,omitempty"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (h *AssistantHandlers) SyncStatus(ctx context.Context, request *mcp.CallToolRequest, input SyncStatusInput) (*mcp.CallToolResult, SyncStatusOutput, error) {
	res := h.session.Load(ctx)
	if input.Reload {
		res = h.session.Reload(ctx)
	}

	out := SyncStatusOutput{
		State:      res.State.String(),
		Source:     res.Source,
		Clients:    len(h.session.Contacts()),
		Diagnostic: res.Diagnostic,
		Trace:      res.Trace,
	}

	if h.history == nil {
		return nil, out, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	states, err := h.history.States()
	if err != nil {
		return nil, SyncStatusOutput{}, fmt.Errorf("failed to read sync states: %w", err)
	}
	recent, err := h.history.Recent(limit)
	if err != nil {
		return nil, SyncStatusOutput{}, fmt.Errorf("failed to read sync log: %w", err)
	}
	for _, st := range states {
		out.Services = append(out.Services, serviceState(st))
	}
	for _, entry := range recent {
		out.Recent = append(out.Recent, JournalEntry{
			Service:   entry.SourceService,
			Action:    entry.Action,
			ClientID:  entry.EntityID,
			Outcome:   entry.Outcome,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}

	return nil, out, nil
}

func serviceState(st models.SyncState) ServiceState {
	out := ServiceState{
		Service:      st.Service,
		Status:       st.Status,
		ErrorMessage: st.ErrorMessage,
	}
	if st.LastSyncTime != nil {
		out.LastSyncTime = st.LastSyncTime.Format(time.RFC3339)
	}
	return out
}

// ABOUTME: Client MCP tool handlers
// ABOUTME: Implements list_clients, get_client, save_client, update_client_status, and delete_client tools
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ClientHandlers struct {
	session *crm.Session
}

func NewClientHandlers(session *crm.Session) *ClientHandlers {
	return &ClientHandlers{session: session}
}

type ListClientsInput struct {
	Query  string `json:"query,omitempty" jsonschema:"Search text matched against name, phone, email, city and location"`
	Status string `json:"status,omitempty" jsonschema:"Filter by lead status (New Lead, Warm Prospect, Hot, Follow-up, Viewing, Negotiation, Closed)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 50)"`
}

type ListClientsOutput struct {
	Clients []models.Contact `json:"clients"`
	Count   int              `json:"count"`
	Total   int              `json:"total"`
}

func (h *ClientHandlers) ListClients(ctx context.Context, request *mcp.CallToolRequest, input ListClientsInput) (*mcp.CallToolResult, ListClientsOutput, error) {
	h.session.Load(ctx)

	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, ListClientsOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}

	matches := h.session.Search(input.Query, status)
	if matches == nil {
		matches = []models.Contact{}
	}
	total := len(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return nil, ListClientsOutput{Clients: matches, Count: len(matches), Total: total}, nil
}

type GetClientInput struct {
	ID string `json:"id" jsonschema:"Client ID (required)"`
}

func (h *ClientHandlers) GetClient(ctx context.Context, request *mcp.CallToolRequest, input GetClientInput) (*mcp.CallToolResult, models.Contact, error) {
	if input.ID == "" {
		return nil, models.Contact{}, fmt.Errorf("id is required")
	}

	h.session.Load(ctx)
	contact, ok := h.session.Contact(input.ID)
	if !ok {
		return nil, models.Contact{}, fmt.Errorf("client not found: %s", input.ID)
	}
	return nil, contact, nil
}

type SaveClientInput struct {
	ID           string `json:"id,omitempty" jsonschema:"Existing client ID; omit to create a new client"`
	Name         string `json:"name,omitempty" jsonschema:"Client name (required for new clients)"`
	Phone        string `json:"phone,omitempty" jsonschema:"Phone number"`
	Email        string `json:"email,omitempty" jsonschema:"Email address"`
	Profession   string `json:"profession,omitempty" jsonschema:"Profession"`
	City         string `json:"city,omitempty" jsonschema:"City"`
	Location     string `json:"location,omitempty" jsonschema:"Neighborhood or address (defaults to city)"`
	Status       string `json:"status,omitempty" jsonschema:"Lead status (defaults to New Lead)"`
	ProjectName  string `json:"project_name,omitempty" jsonschema:"Project the client is interested in"`
	PropertyType string `json:"property_type,omitempty" jsonschema:"Property type, e.g. Condo"`
	BudgetRange  string `json:"budget_range,omitempty" jsonschema:"Budget range"`
	Notes        string `json:"notes,omitempty" jsonschema:"Notes"`
	FollowUpDate string `json:"follow_up_date,omitempty" jsonschema:"Follow-up date (YYYY-MM-DD)"`
	FollowUpTime string `json:"follow_up_time,omitempty" jsonschema:"Follow-up time"`
	FollowUpType string `json:"follow_up_type,omitempty" jsonschema:"Follow-up type: Call, Meeting or Visit"`
}

// SaveClient creates a client, or edits one when id is set. Edits start from
// the stored client so omitted fields are kept.
func (h *ClientHandlers) SaveClient(ctx context.Context, request *mcp.CallToolRequest, input SaveClientInput) (*mcp.CallToolResult, models.Contact, error) {
	h.session.Load(ctx)

	var contact models.Contact
	if input.ID != "" {
		existing, ok := h.session.Contact(input.ID)
		if !ok {
			return nil, models.Contact{}, fmt.Errorf("client not found: %s", input.ID)
		}
		contact = existing
	} else if strings.TrimSpace(input.Name) == "" {
		return nil, models.Contact{}, fmt.Errorf("name is required")
	}

	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, models.Contact{}, err
	}
	if status != "" {
		contact.Status = status
	}
	mergeString(&contact.Name, input.Name)
	mergeString(&contact.Phone, input.Phone)
	mergeString(&contact.Email, input.Email)
	mergeString(&contact.Profession, input.Profession)
	mergeString(&contact.City, input.City)
	mergeString(&contact.Location, input.Location)
	mergeString(&contact.ProjectName, input.ProjectName)
	mergeString(&contact.PropertyType, input.PropertyType)
	mergeString(&contact.BudgetRange, input.BudgetRange)
	mergeString(&contact.Notes, input.Notes)
	mergeString(&contact.FollowUpDate, input.FollowUpDate)
	mergeString(&contact.FollowUpTime, input.FollowUpTime)
	mergeString(&contact.FollowUpType, input.FollowUpType)

	return nil, h.session.Save(ctx, contact), nil
}

// parseStatus resolves an optional status argument. Blank means no status.
func parseStatus(label string) (models.LeadStatus, error) {
	if strings.TrimSpace(label) == "" {
		return "", nil
	}
	status, ok := models.ParseLeadStatus(label)
	if !ok {
		return "", fmt.Errorf("unknown status: %q", label)
	}
	return status, nil
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

type UpdateClientStatusInput struct {
	ID     string `json:"id" jsonschema:"Client ID (required)"`
	Status string `json:"status" jsonschema:"New lead status (required)"`
}

func (h *ClientHandlers) UpdateClientStatus(ctx context.Context, request *mcp.CallToolRequest, input UpdateClientStatusInput) (*mcp.CallToolResult, models.Contact, error) {
	if input.ID == "" {
		return nil, models.Contact{}, fmt.Errorf("id is required")
	}
	status, err := parseStatus(input.Status)
	if err != nil {
		return nil, models.Contact{}, err
	}
	if status == "" {
		return nil, models.Contact{}, fmt.Errorf("status is required")
	}

	h.session.Load(ctx)
	contact, err := h.session.UpdateStatus(ctx, input.ID, status)
	if err != nil {
		return nil, models.Contact{}, fmt.Errorf("failed to update status: %w", err)
	}
	return nil, contact, nil
}

type DeleteClientInput struct {
	ID string `json:"id" jsonschema:"Client ID (required)"`
}

type DeleteClientOutput struct {
	Deleted string `json:"deleted"`
}

func (h *ClientHandlers) DeleteClient(ctx context.Context, request *mcp.CallToolRequest, input DeleteClientInput) (*mcp.CallToolResult, DeleteClientOutput, error) {
	if input.ID == "" {
		return nil, DeleteClientOutput{}, fmt.Errorf("id is required")
	}

	h.session.Load(ctx)
	if err := h.session.Delete(ctx, input.ID); err != nil {
		return nil, DeleteClientOutput{}, fmt.Errorf("failed to delete client: %w", err)
	}
	return nil, DeleteClientOutput{Deleted: input.ID}, nil
}

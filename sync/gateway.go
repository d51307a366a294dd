// ABOUTME: Client for the spreadsheet's script endpoint, the read fallback and only write path
// ABOUTME: Sends getClients, addClient, updateClient and deleteClient actions over HTTP
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/models"
)

// Script endpoint actions.
const (
	ActionGetClients   = "getClients"
	ActionAddClient    = "addClient"
	ActionUpdateClient = "updateClient"
	ActionDeleteClient = "deleteClient"
)

// maxScriptBody caps how much of a script response is read.
const maxScriptBody = 10 << 20

// TabularSource is the primary read path.
type TabularSource interface {
	ReadGrid(ctx context.Context) (Grid, error)
}

// ClientSource is the fallback read path.
type ClientSource interface {
	GetClients(ctx context.Context) ([]models.Contact, error)
}

// ClientWriter dispatches mutations to the remote store.
type ClientWriter interface {
	AddClient(ctx context.Context, c models.Contact) error
	UpdateClient(ctx context.Context, c models.Contact) error
	DeleteClient(ctx context.Context, id string) error
}

// ScriptGateway talks to a deployed spreadsheet script web app.
type ScriptGateway struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// NewScriptGateway builds a gateway from config.
func NewScriptGateway(cfg *config.Config) *ScriptGateway {
	return &ScriptGateway{
		URL:     cfg.ScriptURL,
		Timeout: cfg.RequestTimeout,
	}
}

// Configured reports whether the URL is set and not a placeholder.
func (g *ScriptGateway) Configured() bool {
	return !config.IsPlaceholder(g.URL)
}

type scriptRequest struct {
	Action string          `json:"action"`
	Data   *models.Contact `json:"data,omitempty"`
	ID     string          `json:"id,omitempty"`
}

type scriptReply struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GetClients reads every contact. The body must be a JSON array; an error
// object or any non-JSON text is a failure.
func (g *ScriptGateway) GetClients(ctx context.Context) ([]models.Contact, error) {
	if !g.Configured() {
		return nil, scriptFailure(fmt.Errorf("%w: missing script URL", ErrNotConfigured))
	}

	endpoint, err := url.Parse(g.URL)
	if err != nil {
		return nil, scriptFailure(fmt.Errorf("invalid script URL: %w", err))
	}
	q := endpoint.Query()
	q.Set("action", ActionGetClients)
	endpoint.RawQuery = q.Encode()

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, scriptFailure(fmt.Errorf("failed to build request: %w", err))
	}

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return nil, scriptFailure(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxScriptBody))
	if err != nil {
		return nil, scriptFailure(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, scriptFailure(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	return decodeClients(body)
}

func decodeClients(body []byte) ([]models.Contact, error) {
	text := bytes.TrimSpace(body)
	if len(text) == 0 || (text[0] != '[' && text[0] != '{') {
		return nil, scriptFailure(fmt.Errorf("%w: starts with %q", ErrNotJSON, preview(text)))
	}

	if text[0] == '{' {
		var reply scriptReply
		if err := json.Unmarshal(text, &reply); err != nil {
			return nil, scriptFailure(fmt.Errorf("%w: %v", ErrNotJSON, err))
		}
		if reply.Error != "" {
			return nil, scriptFailure(fmt.Errorf("script error: %s", reply.Error))
		}
		return nil, scriptFailure(fmt.Errorf("expected a JSON array of clients"))
	}

	var records []map[string]any
	if err := json.Unmarshal(text, &records); err != nil {
		return nil, scriptFailure(fmt.Errorf("%w: %v", ErrNotJSON, err))
	}

	contacts := make([]models.Contact, 0, len(records))
	for i, record := range records {
		var c models.Contact
		// Keys in sorted order, so a record carrying two synonyms for one
		// field decodes the same way every time.
		keys := make([]string, 0, len(record))
		for key := range record {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			value := record[key]
			if key == "id" {
				c.ID = strings.TrimSpace(cellString(value))
				continue
			}
			if f, ok := LookupField(key); ok {
				setField(&c, f, cellString(value))
			}
		}
		if c.ID == "" {
			c.ID = strconv.Itoa(i + 1)
		}
		ApplyDefaults(&c, i)
		contacts = append(contacts, c)
	}
	return contacts, nil
}

// AddClient appends a contact. The remote assigns its row position.
func (g *ScriptGateway) AddClient(ctx context.Context, c models.Contact) error {
	return g.post(ctx, scriptRequest{Action: ActionAddClient, Data: &c})
}

// UpdateClient overwrites the row for c.ID.
func (g *ScriptGateway) UpdateClient(ctx context.Context, c models.Contact) error {
	return g.post(ctx, scriptRequest{Action: ActionUpdateClient, Data: &c})
}

// DeleteClient removes the row for id.
func (g *ScriptGateway) DeleteClient(ctx context.Context, id string) error {
	return g.post(ctx, scriptRequest{Action: ActionDeleteClient, ID: id})
}

// post sends a write action. Transport failures return an error. A non-2xx
// status or a JSON error body returns *RemoteError. Anything else, including
// an unreadable body, counts as delivered.
func (g *ScriptGateway) post(ctx context.Context, payload scriptRequest) error {
	if !g.Configured() {
		return fmt.Errorf("%s: %w", payload.Action, ErrNotConfigured)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", payload.Action, err)
	}

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", payload.Action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", payload.Action, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var reply scriptReply
	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxScriptBody))
	if readErr == nil {
		_ = json.Unmarshal(bytes.TrimSpace(data), &reply)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Action: payload.Action, Status: resp.StatusCode, Message: reply.Error}
	}
	if reply.Error != "" {
		return &RemoteError{Action: payload.Action, Status: resp.StatusCode, Message: reply.Error}
	}
	return nil
}

func (g *ScriptGateway) httpClient() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}

func (g *ScriptGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.Timeout > 0 {
		return context.WithTimeout(ctx, g.Timeout)
	}
	return context.WithCancel(ctx)
}

func scriptFailure(err error) error {
	return &SourceError{Source: models.ServiceScript, Err: err}
}

func preview(b []byte) string {
	if len(b) > 50 {
		return string(b[:50])
	}
	return string(b)
}

// ABOUTME: Read-only Google Sheets client returning the raw cell grid of the leads tab
// ABOUTME: Authenticates with an API key or a stored OAuth token and maps rows to contacts
package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/models"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetRange is the column span requested from the leads tab.
const SheetRange = "A:Z"

// Grid is a 2-D block of string cells. The first row holds headers.
type Grid [][]string

// Headers returns the header row, or nil for an empty grid.
func (g Grid) Headers() []string {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// DataRows returns every row after the header.
func (g Grid) DataRows() [][]string {
	if len(g) < 2 {
		return nil
	}
	return g[1:]
}

// Contacts maps every data row. Ids are the 1-based data row position.
func (g Grid) Contacts() []models.Contact {
	columns := NewColumnMap(g.Headers())
	rows := g.DataRows()

	contacts := make([]models.Contact, 0, len(rows))
	for i, row := range rows {
		c := columns.Contact(row, i)
		c.ID = strconv.Itoa(i + 1)
		contacts = append(contacts, c)
	}
	return contacts
}

// SheetsReader fetches the leads tab through the Sheets values API.
type SheetsReader struct {
	SheetID   string
	SheetName string
	APIKey    string

	// OAuthClient authenticates requests when APIKey is empty.
	OAuthClient *http.Client

	// Endpoint overrides the API base URL. Must end in a slash.
	Endpoint string

	// HTTPClient carries API-key requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	Timeout time.Duration
}

// NewSheetsReader builds a reader from config. A stored OAuth token is used
// when no API key is configured.
func NewSheetsReader(ctx context.Context, cfg *config.Config) *SheetsReader {
	r := &SheetsReader{
		SheetID:   cfg.SheetID,
		SheetName: cfg.SheetName,
		APIKey:    cfg.APIKey,
		Timeout:   cfg.RequestTimeout,
	}
	if config.IsPlaceholder(r.APIKey) {
		r.OAuthClient = TokenClient(ctx)
	}
	return r
}

// Range returns the A1 range requested, e.g. Leads!A:Z.
func (r *SheetsReader) Range() string {
	name := r.SheetName
	if name == "" {
		name = config.DefaultSheetName
	}
	return name + "!" + SheetRange
}

// Configured reports whether ReadGrid can attempt a request.
func (r *SheetsReader) Configured() bool {
	if config.IsPlaceholder(r.SheetID) {
		return false
	}
	return !config.IsPlaceholder(r.APIKey) || r.OAuthClient != nil
}

// ReadGrid fetches the tab. All failures come back as a *SourceError.
func (r *SheetsReader) ReadGrid(ctx context.Context) (Grid, error) {
	if config.IsPlaceholder(r.SheetID) {
		return nil, &SourceError{Source: models.ServiceSheets, Err: fmt.Errorf("%w: missing sheet id", ErrNotConfigured)}
	}

	client, err := r.client()
	if err != nil {
		return nil, &SourceError{Source: models.ServiceSheets, Err: err}
	}

	opts := []option.ClientOption{option.WithHTTPClient(client)}
	if r.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(r.Endpoint))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &SourceError{Source: models.ServiceSheets, Err: fmt.Errorf("failed to create sheets service: %w", err)}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	resp, err := service.Spreadsheets.Values.Get(r.SheetID, r.Range()).Context(ctx).Do()
	if err != nil {
		return nil, &SourceError{Source: models.ServiceSheets, Err: err}
	}

	grid := make(Grid, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cellString(cell)
		}
		grid[i] = cells
	}
	return grid, nil
}

func (r *SheetsReader) client() (*http.Client, error) {
	if !config.IsPlaceholder(r.APIKey) {
		base := r.HTTPClient
		if base == nil {
			base = http.DefaultClient
		}
		transport := base.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}
		return &http.Client{
			Transport: &apiKeyTransport{key: r.APIKey, base: transport},
			Timeout:   base.Timeout,
		}, nil
	}
	if r.OAuthClient != nil {
		return r.OAuthClient, nil
	}
	return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
}

// apiKeyTransport adds the key query parameter to every request.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	q := clone.URL.Query()
	q.Set("key", t.key)
	clone.URL.RawQuery = q.Encode()
	return t.base.RoundTrip(clone)
}

// SheetsStatus extracts the HTTP status of a failed Sheets call, or 0.
func SheetsStatus(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// cellString renders a JSON scalar the way the sheet displays it.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// ABOUTME: Client CLI commands
// ABOUTME: Human-friendly commands for listing, viewing, and editing clients
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
)

// load fetches the client list and warns when it could not be reached.
func load(ctx context.Context, session *crm.Session) {
	res := session.Load(ctx)
	if res.Diagnostic != "" {
		fmt.Fprintf(os.Stderr, "✗ %s\n", res.Diagnostic)
	}
}

// clientFlags holds the editable client fields shared by add and update.
type clientFlags struct {
	name, phone, email, profession, city, location, status *string
	project, propertyType, budget, notes                   *string
	followUpDate, followUpTime, followUpType               *string
}

func newClientFlags(fs *flag.FlagSet) *clientFlags {
	return &clientFlags{
		name:         fs.String("name", "", "Client name"),
		phone:        fs.String("phone", "", "Phone number"),
		email:        fs.String("email", "", "Email address"),
		profession:   fs.String("profession", "", "Profession"),
		city:         fs.String("city", "", "City"),
		location:     fs.String("location", "", "Neighborhood or address (defaults to city)"),
		status:       fs.String("status", "", "Lead status"),
		project:      fs.String("project", "", "Project name"),
		propertyType: fs.String("property-type", "", "Property type"),
		budget:       fs.String("budget", "", "Budget range"),
		notes:        fs.String("notes", "", "Notes"),
		followUpDate: fs.String("follow-up-date", "", "Follow-up date (YYYY-MM-DD)"),
		followUpTime: fs.String("follow-up-time", "", "Follow-up time"),
		followUpType: fs.String("follow-up-type", "", "Follow-up type (Call, Meeting, Visit)"),
	}
}

// apply copies every non-empty flag onto c.
func (f *clientFlags) apply(c *models.Contact) error {
	if *f.status != "" {
		status, ok := models.ParseLeadStatus(*f.status)
		if !ok {
			return fmt.Errorf("unknown status %q (valid: %s)", *f.status, statusList())
		}
		c.Status = status
	}

	for _, pair := range []struct {
		dst *string
		v   string
	}{
		{&c.Name, *f.name},
		{&c.Phone, *f.phone},
		{&c.Email, *f.email},
		{&c.Profession, *f.profession},
		{&c.City, *f.city},
		{&c.Location, *f.location},
		{&c.ProjectName, *f.project},
		{&c.PropertyType, *f.propertyType},
		{&c.BudgetRange, *f.budget},
		{&c.Notes, *f.notes},
		{&c.FollowUpDate, *f.followUpDate},
		{&c.FollowUpTime, *f.followUpTime},
		{&c.FollowUpType, *f.followUpType},
	} {
		if pair.v != "" {
			*pair.dst = pair.v
		}
	}
	return nil
}

func statusList() string {
	names := make([]string, len(models.LeadStatuses))
	for i, s := range models.LeadStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// ListCommand lists clients.
func ListCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("query", "", "Search by name, phone, email, city or location")
	statusFlag := fs.String("status", "", "Filter by lead status")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	var status models.LeadStatus
	if *statusFlag != "" {
		parsed, ok := models.ParseLeadStatus(*statusFlag)
		if !ok {
			return fmt.Errorf("unknown status %q (valid: %s)", *statusFlag, statusList())
		}
		status = parsed
	}

	ctx := context.Background()
	load(ctx, session)

	clients := session.Search(*query, status)
	if len(clients) == 0 {
		fmt.Println("No clients found")
		return nil
	}
	total := len(clients)
	if *limit > 0 && len(clients) > *limit {
		clients = clients[:*limit]
	}

	// Pretty print results
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tSTATUS\tCITY\tPHONE\tID")
	_, _ = fmt.Fprintln(w, "----\t------\t----\t-----\t--")

	for _, c := range clients {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.Name, c.Status, orDash(c.City), orDash(c.Phone), c.ID)
	}
	_ = w.Flush()

	if total > len(clients) {
		fmt.Printf("\nShowing %d of %d client(s)\n", len(clients), total)
	} else {
		fmt.Printf("\nTotal: %d client(s)\n", total)
	}
	return nil
}

// ShowCommand prints every field of one client.
func ShowCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("client ID is required")
	}
	id := fs.Args()[0]

	load(context.Background(), session)
	c, ok := session.Contact(id)
	if !ok {
		return fmt.Errorf("client not found: %s", id)
	}

	fmt.Printf("%s\n", c.Name)
	fmt.Printf("  ID:          %s\n", c.ID)
	fmt.Printf("  Status:      %s\n", c.Status)
	for _, row := range []struct{ label, value string }{
		{"Phone", c.Phone},
		{"Email", c.Email},
		{"Profession", c.Profession},
		{"City", c.City},
		{"Location", c.Location},
		{"Project", c.ProjectName},
		{"Property", c.PropertyType},
		{"Budget", c.BudgetRange},
		{"Follow-up", strings.TrimSpace(strings.Join([]string{c.FollowUpDate, c.FollowUpTime, c.FollowUpType}, " "))},
		{"Notes", c.Notes},
		{"Avatar", c.Avatar},
	} {
		if row.value != "" {
			fmt.Printf("  %-12s %s\n", row.label+":", row.value)
		}
	}
	return nil
}

// AddCommand creates a client and sends it to the spreadsheet.
func AddCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	fields := newClientFlags(fs)
	_ = fs.Parse(args)

	if strings.TrimSpace(*fields.name) == "" {
		return fmt.Errorf("--name is required")
	}

	var c models.Contact
	if err := fields.apply(&c); err != nil {
		return err
	}

	ctx := context.Background()
	load(ctx, session)

	if match, ok := sync.NewContactMatcher(session.Contacts()).FindMatch(c); ok {
		fmt.Printf("⚠️  Possible duplicate of %s (ID: %s)\n", match.Name, match.ID)
	}
	created := session.Save(ctx, c)

	fmt.Printf("✓ Client created: %s (ID: %s)\n", created.Name, created.ID)
	fmt.Printf("  Status: %s\n", created.Status)
	if created.City != "" {
		fmt.Printf("  City: %s\n", created.City)
	}
	return nil
}

// UpdateCommand edits an existing client.
func UpdateCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	fields := newClientFlags(fs)
	_ = fs.Parse(args)

	// First positional arg is the client ID
	if len(fs.Args()) < 1 {
		return fmt.Errorf("client ID is required")
	}
	id := fs.Args()[0]

	ctx := context.Background()
	load(ctx, session)

	existing, ok := session.Contact(id)
	if !ok {
		return fmt.Errorf("client not found: %s", id)
	}
	if err := fields.apply(&existing); err != nil {
		return err
	}

	updated := session.Save(ctx, existing)
	fmt.Printf("✓ Client updated: %s (ID: %s)\n", updated.Name, updated.ID)
	return nil
}

// StatusCommand moves a client to another lead status.
func StatusCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	next := fs.Bool("next", false, "Advance to the next pipeline stage")
	_ = fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("client ID is required")
	}
	id := rest[0]

	ctx := context.Background()
	load(ctx, session)

	var status models.LeadStatus
	switch {
	case *next:
		c, ok := session.Contact(id)
		if !ok {
			return fmt.Errorf("client not found: %s", id)
		}
		status = c.Status.Next()
	case len(rest) >= 2:
		label := strings.Join(rest[1:], " ")
		parsed, ok := models.ParseLeadStatus(label)
		if !ok {
			return fmt.Errorf("unknown status %q (valid: %s)", label, statusList())
		}
		status = parsed
	default:
		return fmt.Errorf("status is required (valid: %s)", statusList())
	}

	updated, err := session.UpdateStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	fmt.Printf("✓ %s is now %s\n", updated.Name, updated.Status)
	if !session.Config().PersistStatusChanges {
		fmt.Println("  (local only; run 'leadbook config set persist_status_changes true' to save status changes to the sheet)")
	}
	return nil
}

// DeleteCommand removes a client locally and from the spreadsheet.
func DeleteCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) < 1 {
		return fmt.Errorf("client ID is required")
	}
	id := fs.Args()[0]

	ctx := context.Background()
	load(ctx, session)

	c, ok := session.Contact(id)
	if !ok {
		return fmt.Errorf("client not found: %s", id)
	}
	if err := session.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}

	fmt.Printf("✓ Client deleted: %s (ID: %s)\n", c.Name, id)
	return nil
}

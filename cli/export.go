// ABOUTME: CSV export command
// ABOUTME: Writes clients in the spreadsheet's column layout
package cli

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
	"github.com/harperreed/leadbook/sync"
)

// ExportCommand writes the client list as CSV.
func ExportCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	load(context.Background(), session)
	clients := session.Contacts()

	if *output == "" {
		return writeCSV(os.Stdout, clients)
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *output, err)
	}
	defer func() { _ = f.Close() }()

	if err := writeCSV(f, clients); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Exported %d client(s) to %s\n", len(clients), *output)
	return nil
}

func writeCSV(w io.Writer, clients []models.Contact) error {
	cw := csv.NewWriter(w)

	header := append([]string{"ID"}, sync.DefaultHeaders...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range clients {
		row := append([]string{c.ID}, sync.RowForHeaders(sync.DefaultHeaders, c)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ABOUTME: Sync journal CLI command
// ABOUTME: Shows per-source load state and recent load and write outcomes
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/models"
)

// HistoryCommand prints the sync journal.
func HistoryCommand(history crm.History, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Number of journal entries to show")
	_ = fs.Parse(args)

	if history == nil {
		return fmt.Errorf("journal is disabled")
	}

	states, err := history.States()
	if err != nil {
		return fmt.Errorf("failed to read sync states: %w", err)
	}

	fmt.Println("SOURCES")
	if len(states) == 0 {
		fmt.Println("  No loads recorded yet")
	}
	for _, st := range states {
		marker := "✓"
		if st.Status != models.SyncStatusIdle {
			marker = "✗"
		}
		last := "never"
		if st.LastSyncTime != nil {
			last = st.LastSyncTime.Local().Format(time.DateTime)
		}
		fmt.Printf("  %s %-7s last success: %s\n", marker, st.Service, last)
		if st.ErrorMessage != "" {
			fmt.Printf("      %s\n", st.ErrorMessage)
		}
	}

	entries, err := history.Recent(*limit)
	if err != nil {
		return fmt.Errorf("failed to read sync log: %w", err)
	}

	fmt.Println("\nRECENT")
	if len(entries) == 0 {
		fmt.Println("  No entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "  TIME\tSOURCE\tACTION\tCLIENT\tOUTCOME\tDETAIL")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime), e.SourceService, e.Action,
			orDash(e.EntityID), e.Outcome, orDash(e.Detail))
	}
	_ = w.Flush()
	return nil
}

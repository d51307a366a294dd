// ABOUTME: Follow-up CLI command
// ABOUTME: Lists scheduled follow-ups with overdue and due-today markers
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/viz"
)

type scheduled struct {
	date time.Time
	name string
	kind string
	when string
	id   string
}

// FollowupsCommand lists clients with a follow-up date, soonest first.
func FollowupsCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("followups", flag.ExitOnError)
	overdueOnly := fs.Bool("overdue-only", false, "Show only overdue follow-ups")
	limit := fs.Int("limit", 20, "Maximum number of follow-ups to show")
	_ = fs.Parse(args)

	load(context.Background(), session)

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var items []scheduled
	for _, c := range session.Contacts() {
		date, ok := viz.ParseFollowUpDate(c.FollowUpDate)
		if !ok {
			continue
		}
		if *overdueOnly && !date.Before(today) {
			continue
		}
		items = append(items, scheduled{date: date, name: c.Name, kind: c.FollowUpType, when: c.FollowUpTime, id: c.ID})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].date.Before(items[j].date) })
	if *limit > 0 && len(items) > *limit {
		items = items[:*limit]
	}

	if len(items) == 0 {
		fmt.Println("No follow-ups scheduled")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDATE\tTIME\tTYPE\tID")
	_, _ = fmt.Fprintln(w, "----\t----\t----\t----\t--")

	for _, f := range items {
		indicator := "🟢"
		if f.date.Before(today) {
			indicator = "🔴"
		} else if f.date.Equal(today) {
			indicator = "🟡"
		}

		_, _ = fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\n",
			indicator, f.name, f.date.Format("2006-01-02"), orDash(f.when), orDash(f.kind), f.id)
	}

	_ = w.Flush()
	return nil
}

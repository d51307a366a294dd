// ABOUTME: Visualization CLI commands
// ABOUTME: Handles the stats dashboard and pipeline graph generation
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/viz"
)

// StatsCommand prints the pipeline dashboard.
func StatsCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	_ = fs.Parse(args)

	load(context.Background(), session)
	stats := viz.ComputeStats(session.Contacts(), time.Now())
	fmt.Print(viz.RenderDashboard(stats))
	return nil
}

// GraphCommand generates the pipeline graph in xdot format.
func GraphCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	load(ctx, session)

	dot, err := viz.GeneratePipelineGraph(ctx, session.Contacts())
	if err != nil {
		return err
	}

	if *output != "" {
		return os.WriteFile(*output, []byte(dot), 0644)
	}

	fmt.Println(dot)
	return nil
}

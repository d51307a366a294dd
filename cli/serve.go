// ABOUTME: Web dashboard subcommand
// ABOUTME: Serves the HTML dashboard and JSON API on a local port
package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/web"
)

// ServeCommand starts the web server. history may be nil.
func ServeCommand(session *crm.Session, history crm.History, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "Port to listen on")
	_ = fs.Parse(args)

	// Load before listening so the first page is not a cold fetch.
	load(context.Background(), session)

	server, err := web.NewServer(session, history)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	fmt.Printf("✓ Dashboard at http://localhost:%d\n", *port)
	return server.Start(*port)
}

// ABOUTME: Interactive terminal UI subcommand
// ABOUTME: Opens the full-screen client browser over the session
package cli

import (
	"flag"

	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/tui"
)

// TUICommand runs the terminal UI until the user quits.
func TUICommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	_ = fs.Parse(args)

	return tui.Run(session)
}

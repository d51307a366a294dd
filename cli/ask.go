// ABOUTME: Assistant CLI command
// ABOUTME: Sends a question plus the client list to the configured assistant
package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/harperreed/leadbook/crm"
)

// AskCommand asks the assistant one question.
func AskCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	_ = fs.Parse(args)

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	ctx := context.Background()
	load(ctx, session)

	fmt.Println(session.Ask(ctx, question))
	return nil
}

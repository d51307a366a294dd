// ABOUTME: Connection diagnostics command
// ABOUTME: Checks config, probes the Sheets API and the script endpoint separately
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/sync"
)

// DoctorCommand reports on each data source without touching the client list.
func DoctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()
	return runDoctor(ctx, cfg, sync.NewSheetsReader(ctx, cfg), sync.NewScriptGateway(cfg))
}

func runDoctor(ctx context.Context, cfg *config.Config, reader *sync.SheetsReader, gateway *sync.ScriptGateway) error {
	fmt.Println("CONFIG")
	fmt.Printf("  File: %s\n", config.Path())
	issues := cfg.Issues()
	if len(issues) == 0 {
		fmt.Println("  ✓ All sources configured")
	}
	for _, issue := range issues {
		fmt.Printf("  ⚠️  %s\n", issue)
	}

	fmt.Println("\nGOOGLE SHEETS API")
	sheetsOK := probeSheets(ctx, reader)

	fmt.Println("\nSCRIPT ENDPOINT")
	scriptOK := probeScript(ctx, gateway)

	if !sheetsOK && !scriptOK {
		return fmt.Errorf("no data source reachable")
	}
	return nil
}

func probeSheets(ctx context.Context, reader *sync.SheetsReader) bool {
	if !reader.Configured() {
		fmt.Println("  - Skipped: sheet id or credential missing")
		return false
	}

	fmt.Printf("  Range: %s\n", reader.Range())
	grid, err := reader.ReadGrid(ctx)
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		switch sync.SheetsStatus(err) {
		case 403:
			fmt.Println("    The API key is rejected or the sheet is not shared publicly.")
		case 404:
			fmt.Println("    Check the sheet id and the tab name.")
		}
		return false
	}

	headers := grid.Headers()
	fmt.Printf("  ✓ %d data row(s)\n", len(grid.DataRows()))
	fmt.Printf("  Headers: %s\n", strings.Join(headers, ", "))

	var unmapped []string
	for _, h := range headers {
		if _, ok := sync.LookupField(h); !ok {
			unmapped = append(unmapped, h)
		}
	}
	if len(unmapped) > 0 {
		fmt.Printf("  ⚠️  Ignored columns: %s\n", strings.Join(unmapped, ", "))
	}
	return len(grid.DataRows()) > 0
}

func probeScript(ctx context.Context, gateway *sync.ScriptGateway) bool {
	if !gateway.Configured() {
		fmt.Println("  - Skipped: script URL missing")
		return false
	}

	clients, err := gateway.GetClients(ctx)
	if err != nil {
		fmt.Printf("  ✗ %v\n", err)
		if errors.Is(err, sync.ErrNotJSON) {
			fmt.Println("    The endpoint did not return JSON. Check the deployment is public and the URL ends in /exec.")
		}
		return false
	}

	fmt.Printf("  ✓ %d client(s)\n", len(clients))
	return true
}

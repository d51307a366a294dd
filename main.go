// ABOUTME: Entry point for the leadbook CLI, TUI, web dashboard, and MCP server
// ABOUTME: Loads config, opens the sync journal, and routes to a command
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harperreed/leadbook/cli"
	"github.com/harperreed/leadbook/config"
	"github.com/harperreed/leadbook/crm"
	"github.com/harperreed/leadbook/db"
	"github.com/harperreed/leadbook/sync"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", db.DefaultPath(), "Sync journal database path")
	noJournal := flag.Bool("no-journal", false, "Do not record load and write outcomes")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("leadbook version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	// Commands that never touch the client list.
	switch command {
	case "help", "--help", "-h":
		printUsage()
		return
	case "auth":
		if err := cli.AuthCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	switch command {
	case "config":
		if err := cli.ConfigCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	case "doctor":
		if err := cli.DoctorCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	// The journal is optional. Interfaces stay nil, never a typed nil pointer.
	var journal sync.Journal
	var history crm.History
	if !*noJournal {
		database, err := db.OpenDatabase(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer func() { _ = database.Close() }()

		j := db.NewJournal(database)
		journal = j
		history = j
	}

	if command == "history" {
		if err := cli.HistoryCommand(history, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	session := crm.NewSession(context.Background(), cfg, journal)
	err = run(session, history, command, commandArgs)

	// Let background writes finish before the journal closes.
	session.Close()

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(session *crm.Session, history crm.History, command string, args []string) error {
	switch command {
	case "list":
		return cli.ListCommand(session, args)
	case "show":
		return cli.ShowCommand(session, args)
	case "add":
		return cli.AddCommand(session, args)
	case "update":
		return cli.UpdateCommand(session, args)
	case "status":
		return cli.StatusCommand(session, args)
	case "delete":
		return cli.DeleteCommand(session, args)
	case "stats":
		return cli.StatsCommand(session, args)
	case "followups":
		return cli.FollowupsCommand(session, args)
	case "export":
		return cli.ExportCommand(session, args)
	case "ask":
		return cli.AskCommand(session, args)
	case "graph":
		return cli.GraphCommand(session, args)
	case "tui":
		return cli.TUICommand(session, args)
	case "serve":
		return cli.ServeCommand(session, history, args)
	case "mcp":
		return cli.MCPCommand(session, history, version)
	}

	fmt.Printf("Unknown command: %s\n\n", command)
	printUsage()
	os.Exit(1)
	return nil
}

func printUsage() {
	fmt.Printf(`leadbook v%s - Real estate lead tracker backed by Google Sheets

USAGE:
  leadbook [global flags] <command> [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Sync journal path (default: ~/.local/share/leadbook/journal.db)
  --no-journal           Do not record load and write outcomes

CLIENT COMMANDS:
  list                   List clients
    --query <text>         Filter by name, phone, email, city, or location
    --status <status>      Filter by lead status
    --limit <n>            Maximum clients to show
  show <id>              Show one client
  add                    Add a client
    --name <name>          Client name (required)
    --phone, --email, --profession, --city, --location, --status, --project,
    --property-type, --budget, --notes, --follow-up-date,
    --follow-up-time, --follow-up-type
  update [flags] <id>    Edit a client (same flags as add)
  status <id> <status>   Move a client to a pipeline stage
  status --next <id>     Advance a client to the next stage
  delete <id>            Delete a client

PIPELINE:
  stats                  Pipeline dashboard
  followups              Scheduled follow-ups, soonest first
    --overdue-only         Only overdue follow-ups
    --limit <n>            Maximum follow-ups to show
  graph                  Pipeline graph in Graphviz DOT format
    --output <file>        Write to a file instead of stdout
  export                 Export clients as CSV
    --output <file>        Write to a file instead of stdout
  ask <question>         Ask the assistant about your clients

INTERFACES:
  tui                    Interactive terminal UI
  serve                  Web dashboard and JSON API
    --port <port>          Port to listen on (default: 8080)
  mcp                    MCP server on stdio

SETUP:
  config [show]          Show the effective config
  config path            Print the config file path
  config set <key> <v>   Set a config value
  config set-secret <k>  Set a secret at a hidden prompt
  auth                   Authorize Google Sheets access with OAuth
    --no-browser           Print the URL instead of opening a browser
  doctor                 Probe each data source and explain failures
  history                Show recorded load and write outcomes
    --limit <n>            Number of recent entries

EXAMPLES:
  leadbook add --name "Robert Fox" --city "New York" --status Hot
  leadbook status --next 1
  leadbook list --status "warm prospect"
  leadbook serve --port 9000
`, version)
}

// ABOUTME: Config CLI commands
// ABOUTME: Shows, edits, and locates the leadbook config file
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/harperreed/leadbook/config"
	"golang.org/x/term"
)

// ConfigCommand routes config subcommands.
func ConfigCommand(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return configShow(cfg)
	}

	switch args[0] {
	case "show":
		return configShow(cfg)
	case "path":
		fmt.Println(config.Path())
		return nil
	case "set":
		return configSet(args[1:])
	case "set-secret":
		return configSetSecret(args[1:])
	default:
		return fmt.Errorf("unknown config subcommand: %s (valid: show, set, set-secret, path)", args[0])
	}
}

func configShow(cfg *config.Config) error {
	r := cfg.Redacted()

	timeout := "none"
	if r.RequestTimeout > 0 {
		timeout = r.RequestTimeout.String()
	}

	fmt.Printf("Config file: %s\n\n", config.Path())
	fmt.Printf("  sheet_id:               %s\n", orDash(r.SheetID))
	fmt.Printf("  sheet_name:             %s\n", orDash(r.SheetName))
	fmt.Printf("  api_key:                %s\n", orDash(r.APIKey))
	fmt.Printf("  script_url:             %s\n", orDash(r.ScriptURL))
	fmt.Printf("  openai_api_key:         %s\n", orDash(r.OpenAIKey))
	fmt.Printf("  openai_model:           %s\n", orDash(r.OpenAIModel))
	fmt.Printf("  chat_webhook_url:       %s\n", orDash(r.ChatWebhookURL))
	fmt.Printf("  persist_status_changes: %t\n", r.PersistStatusChanges)
	fmt.Printf("  request_timeout:        %s\n", timeout)

	if issues := cfg.Issues(); len(issues) > 0 {
		fmt.Println()
		for _, issue := range issues {
			fmt.Printf("⚠️  %s\n", issue)
		}
	}
	return nil
}

func configSet(args []string) error {
	fs := flag.NewFlagSet("config set", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		return fmt.Errorf("usage: leadbook config set <key> <value> (keys: %s)", strings.Join(config.Keys(), ", "))
	}
	return saveSetting(fs.Arg(0), strings.Join(fs.Args()[1:], " "))
}

// configSetSecret reads the value at a hidden prompt so it stays out of shell history.
func configSetSecret(args []string) error {
	fs := flag.NewFlagSet("config set-secret", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: leadbook config set-secret <key>")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("set-secret needs an interactive terminal; use 'config set' instead")
	}

	fmt.Printf("%s: ", fs.Arg(0))
	secret, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	fmt.Println() // New line after hidden input

	return saveSetting(fs.Arg(0), string(secret))
}

// saveSetting edits the file config only, so env overrides are never written back.
func saveSetting(key, value string) error {
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ %s saved to %s\n", key, config.Path())
	return nil
}

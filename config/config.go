// ABOUTME: Configuration for spreadsheet sources, assistant, and sync behavior
// ABOUTME: Loads XDG config file, .env files, and environment variable overrides

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName is used for XDG directories.
	AppName = "leadbook"

	// ConfigFileName is where we store local config.
	ConfigFileName = "config.json"

	// DefaultSheetName is the tab holding the leads.
	DefaultSheetName = "Leads"

	// DefaultOpenAIModel matches the model the assistant was tuned against.
	DefaultOpenAIModel = "gpt-3.5-turbo"
)

// Config holds the data source settings. Every source setting is optional;
// missing values degrade loading instead of failing.
type Config struct {
	SheetID   string `json:"sheet_id,omitempty"`
	SheetName string `json:"sheet_name,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	ScriptURL string `json:"script_url,omitempty"`

	OpenAIKey      string `json:"openai_api_key,omitempty"`
	OpenAIModel    string `json:"openai_model,omitempty"`
	ChatWebhookURL string `json:"chat_webhook_url,omitempty"`

	// PersistStatusChanges sends status changes to the script endpoint.
	// Off by default: status changes stay local.
	PersistStatusChanges bool `json:"persist_status_changes"`

	// RequestTimeout bounds each remote call. Zero means no timeout.
	RequestTimeout time.Duration `json:"request_timeout,omitempty"`
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SheetName:   DefaultSheetName,
		OpenAIModel: DefaultOpenAIModel,
	}
}

// Dir returns the XDG data directory for the app.
func Dir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Path returns the path to the config file.
func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// LoadConfig loads config from disk, then .env.local/.env, then the
// environment. Returns defaults if no file exists.
// Environment variables override file values:
// - GOOGLE_SHEET_ID
// - GOOGLE_API_KEY
// - GOOGLE_SCRIPT_URL
// - LEADBOOK_SHEET_NAME
// - OPENAI_API_KEY
// - LEADBOOK_OPENAI_MODEL
// - LEADBOOK_CHAT_WEBHOOK_URL
// - LEADBOOK_PERSIST_STATUS
// - LEADBOOK_REQUEST_TIMEOUT.
func LoadConfig() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}

	loadDotEnv()
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cfg.SheetName == "" {
		cfg.SheetName = DefaultSheetName
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = DefaultOpenAIModel
	}

	return cfg, nil
}

// LoadFile reads only the config file, without .env or environment
// overrides. Edits made through it can be saved without leaking env values.
func LoadFile() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}

// loadDotEnv loads env files from the working directory. Existing variables win.
func loadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GOOGLE_SHEET_ID"); v != "" {
		cfg.SheetID = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GOOGLE_SCRIPT_URL"); v != "" {
		cfg.ScriptURL = v
	}
	if v := os.Getenv("LEADBOOK_SHEET_NAME"); v != "" {
		cfg.SheetName = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIKey = v
	}
	if v := os.Getenv("LEADBOOK_OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("LEADBOOK_CHAT_WEBHOOK_URL"); v != "" {
		cfg.ChatWebhookURL = v
	}
	if v := os.Getenv("LEADBOOK_PERSIST_STATUS"); v != "" {
		cfg.PersistStatusChanges = v == "true" || v == "1"
	}
	if v := os.Getenv("LEADBOOK_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid LEADBOOK_REQUEST_TIMEOUT %q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

// Save persists the config to disk with user-only permissions.
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(Path(), data, 0600)
}

// IsPlaceholder reports whether a setting is blank or still holds a template
// value such as https://script.google.com/macros/s/YOUR_SCRIPT_ID/exec.
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.Contains(v, "YOUR_")
}

// SheetsConfigured reports whether the tabular API has an id and API key.
func (c *Config) SheetsConfigured() bool {
	return !IsPlaceholder(c.SheetID) && !IsPlaceholder(c.APIKey)
}

// ScriptConfigured reports whether the script endpoint is usable.
func (c *Config) ScriptConfigured() bool {
	return !IsPlaceholder(c.ScriptURL)
}

// Issues lists configuration problems for diagnostics.
func (c *Config) Issues() []string {
	var issues []string
	if IsPlaceholder(c.ScriptURL) {
		issues = append(issues, "GOOGLE_SCRIPT_URL not configured or contains placeholder")
	}
	if IsPlaceholder(c.APIKey) {
		issues = append(issues, "GOOGLE_API_KEY not configured")
	}
	if IsPlaceholder(c.SheetID) {
		issues = append(issues, "GOOGLE_SHEET_ID not configured")
	}
	return issues
}

// settable maps CLI keys to config fields.
var settable = map[string]func(c *Config, v string) error{
	"sheet_id":   func(c *Config, v string) error { c.SheetID = v; return nil },
	"sheet_name": func(c *Config, v string) error { c.SheetName = v; return nil },
	"api_key":    func(c *Config, v string) error { c.APIKey = v; return nil },
	"script_url": func(c *Config, v string) error { c.ScriptURL = v; return nil },
	"openai_api_key": func(c *Config, v string) error {
		c.OpenAIKey = v
		return nil
	},
	"openai_model": func(c *Config, v string) error { c.OpenAIModel = v; return nil },
	"chat_webhook_url": func(c *Config, v string) error {
		c.ChatWebhookURL = v
		return nil
	},
	"persist_status_changes": func(c *Config, v string) error {
		c.PersistStatusChanges = v == "true" || v == "1" || v == "yes"
		return nil
	},
	"request_timeout": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		c.RequestTimeout = d
		return nil
	},
}

// Keys returns the settable config keys, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set assigns a value by key. It does not save.
func (c *Config) Set(key, value string) error {
	set, ok := settable[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	return set(c, strings.TrimSpace(value))
}

// Redacted returns a copy safe for printing.
func (c *Config) Redacted() Config {
	r := *c
	r.APIKey = redact(r.APIKey)
	r.OpenAIKey = redact(r.OpenAIKey)
	return r
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}

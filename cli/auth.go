// ABOUTME: Google OAuth CLI command
// ABOUTME: Authorizes read-only Sheets access for private spreadsheets
package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/harperreed/leadbook/sync"
	"golang.org/x/oauth2"
)

// AuthCommand handles OAuth setup. The stored token is used by the Sheets
// reader whenever no API key is configured.
func AuthCommand(args []string) error {
	fs := flag.NewFlagSet("auth", flag.ExitOnError)
	noBrowser := fs.Bool("no-browser", false, "Print the URL instead of opening a browser")
	_ = fs.Parse(args)

	ctx := context.Background()

	config, err := sync.GetOAuthConfig()
	if err != nil {
		return fmt.Errorf("failed to get OAuth config: %w", err)
	}

	// Start local server for OAuth callback
	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)
	state := uuid.NewString()

	mux := http.NewServeMux()
	mux.HandleFunc(sync.OAuthCallbackPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errChan <- fmt.Errorf("state mismatch in OAuth callback")
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: ":8080", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Generate auth URL
	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)

	if !*noBrowser {
		_ = openBrowser(authURL)
	}

	// Wait for callback or error
	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := sync.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Printf("\n✓ Authenticated successfully\n")
		fmt.Printf("✓ Tokens saved to %s\n\n", sync.TokenPath())
		fmt.Println("Private sheets can now be read without an API key. Run 'leadbook doctor' to check.")

		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}

// ABOUTME: Google Contacts CLI commands
// ABOUTME: Handles OAuth setup and importing contacts into the CRM
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/sync"
)

// GoogleAuthCommand runs the OAuth consent flow and saves the token.
func GoogleAuthCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("google auth", flag.ContinueOnError)
	addr := fs.String("listen", "localhost:8080", "Address for the OAuth callback")
	noBrowser := fs.Bool("no-browser", false, "Print the URL instead of opening a browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := sync.ConfiguredOAuth()
	if err != nil {
		return err
	}
	config.RedirectURL = "http://" + *addr + "/oauth/callback"

	state := uuid.NewString()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			errs <- errors.New("OAuth state mismatch")
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			errs <- errors.New("no authorization code received")
			return
		}
		_, _ = fmt.Fprint(w, "Authorization successful! You can close this window.")
		codes <- code
	})

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("failed to listen for OAuth callback: %w", err)
	}
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := sync.AuthURL(config, state)
	_, _ = fmt.Fprintf(stdout, "Visit this URL to authorize access to your contacts:\n%s\n\n", authURL)
	if !*noBrowser {
		_ = openBrowser(authURL)
	}

	select {
	case code := <-codes:
		if _, err := sync.Exchange(ctx, config, code, sync.TokenPath()); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "✓ Authenticated successfully\n✓ Token saved to %s\n", sync.TokenPath())
		_, _ = fmt.Fprintln(stdout, "Run 'solocrm google import' to import contacts.")
		return nil
	case err := <-errs:
		return fmt.Errorf("OAuth flow failed: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GoogleImportCommand imports Google contacts into the signed-in session.
func GoogleImportCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("google import", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	config, err := sync.ConfiguredOAuth()
	if err != nil {
		return err
	}
	token, err := sync.LoadToken(sync.TokenPath())
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'solocrm google auth' first: %w", err)
	}

	fetcher, err := sync.NewPeopleClient(ctx, config, token)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, "Importing Google Contacts...")
	stats, err := sync.NewContactsImporter(session, fetcher).Import(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "✓ Fetched %d, created %d, updated %d, skipped %d\n",
		stats.Fetched, stats.Created, stats.Updated, stats.Skipped)
	return nil
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

	return exec.Command(cmd, args...).Start()
}

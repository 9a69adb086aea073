// ABOUTME: HTTP API and terminal UI launch commands
// ABOUTME: serve blocks until the context is cancelled
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/solocrm/auth"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/tui"
	"github.com/harperreed/solocrm/web"
)

// ServeCommand starts the HTTP API.
func ServeCommand(ctx context.Context, backend crm.Backend, secret, defaultTZ string, port int, logger *log.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", fmt.Sprintf(":%d", port), "Listen address")
	ttl := fs.Duration("token-ttl", 24*time.Hour, "Lifetime of issued tokens")
	if err := fs.Parse(args); err != nil {
		return err
	}

	authenticator, err := auth.New(secret, *ttl)
	if err != nil {
		return err
	}

	return web.NewServer(backend, authenticator, logger, defaultTZ).Start(ctx, *addr)
}

// TUICommand opens the terminal UI.
func TUICommand(ctx context.Context, session *crm.Session, prefs tui.SidebarPrefs) error {
	return tui.Run(ctx, session, prefs)
}

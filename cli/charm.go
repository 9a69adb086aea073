// ABOUTME: Charm sync commands for the hosted backend
// ABOUTME: Shows connection state, forces a sync and toggles auto-sync
package cli

import (
	"fmt"
	"time"

	"github.com/harperreed/solocrm/charm"
)

// SyncStatusCommand prints the charm connection and sync settings.
func SyncStatusCommand(client *charm.Client, args []string) error {
	cfg := client.Config()

	w := newTable()
	_, _ = fmt.Fprintf(w, "host\t%s\n", cfg.Host)
	_, _ = fmt.Fprintf(w, "auto-sync\t%t\n", cfg.AutoSync)
	_, _ = fmt.Fprintf(w, "stale threshold\t%s\n", cfg.StaleThreshold)
	if last := client.LastSync(); last.IsZero() {
		_, _ = fmt.Fprintln(w, "last sync\tnever")
	} else {
		_, _ = fmt.Fprintf(w, "last sync\t%s\n", last.Format(time.RFC3339))
	}
	if id, err := client.ID(); err == nil {
		_, _ = fmt.Fprintf(w, "charm id\t%s\n", id)
		_, _ = fmt.Fprintln(w, "status\tconnected")
	} else {
		_, _ = fmt.Fprintln(w, "status\tnot connected")
	}
	return w.Flush()
}

// SyncNowCommand pushes and pulls pending changes.
func SyncNowCommand(client *charm.Client, args []string) error {
	if err := client.Sync(); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	_, _ = fmt.Fprintln(stdout, "✓ Synced")
	return nil
}

// SyncAutoCommand turns auto-sync on or off.
func SyncAutoCommand(client *charm.Client, args []string) error {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return fmt.Errorf("usage: sync auto <on|off>")
	}
	enabled := args[0] == "on"
	if err := client.Config().SetAutoSync(enabled); err != nil {
		return fmt.Errorf("failed to save auto-sync setting: %w", err)
	}
	_, _ = fmt.Fprintf(stdout, "✓ Auto-sync %s\n", args[0])
	return nil
}

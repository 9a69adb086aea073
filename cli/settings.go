// ABOUTME: Settings, activity log and local preference commands
// ABOUTME: Settings live with the backend; prefs stay on this machine
package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/prefs"
)

// SettingsShowCommand prints the current user settings.
func SettingsShowCommand(session *crm.Session, args []string) error {
	settings := session.Settings()
	w := newTable()
	_, _ = fmt.Fprintf(w, "timezone\t%s\t%s\n", settings.Timezone, dates.TimezoneLabel(settings.Timezone))
	_, _ = fmt.Fprintf(w, "theme\t%s\t\n", settings.Theme)
	_, _ = fmt.Fprintf(w, "notifications\t%s\t\n", strconv.FormatBool(settings.Notifications))
	return w.Flush()
}

// SettingsSetCommand changes one setting: settings set <key> <value>.
func SettingsSetCommand(ctx context.Context, session *crm.Session, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: settings set <timezone|theme|notifications> <value>")
	}
	key, value := args[0], args[1]

	var err error
	if key == crm.SettingTimezone {
		err = session.UpdateTimezone(ctx, value)
	} else {
		err = session.UpdateSetting(ctx, key, value)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "✓ %s set to %s\n", key, value)
	return nil
}

// ActivityListCommand prints recent activity, newest first.
func ActivityListCommand(ctx context.Context, session *crm.Session, locale string, args []string) error {
	fs := flag.NewFlagSet("activity list", flag.ContinueOnError)
	limit := fs.Int("limit", crm.DefaultActivityLimit, "Maximum entries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	entries, err := session.LoadActivities(ctx, *limit)
	if err != nil {
		return fmt.Errorf("failed to load activity: %w", err)
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(stdout, "No activity recorded")
		return nil
	}

	tz := session.Timezone()
	w := newTable()
	_, _ = fmt.Fprintln(w, "WHEN\tACTION\tPAGE\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t------\t----\t-----------")
	for _, a := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			dates.FormatDisplayDateTime(a.Timestamp, tz, locale), a.Action, a.Page, truncate(a.Description, 60))
	}
	return w.Flush()
}

// ActivityClearCommand removes the activity log.
func ActivityClearCommand(ctx context.Context, session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("activity clear", flag.ContinueOnError)
	force := fs.Bool("force", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*force && !confirm("Clear the whole activity log?") {
		_, _ = fmt.Fprintln(stdout, "Cancelled")
		return nil
	}
	if err := session.ClearActivities(ctx); err != nil {
		return fmt.Errorf("failed to clear activity: %w", err)
	}
	_, _ = fmt.Fprintln(stdout, "✓ Activity log cleared")
	return nil
}

// PrefsShowCommand prints the local preferences.
func PrefsShowCommand(p *prefs.Store, args []string) error {
	w := newTable()
	_, _ = fmt.Fprintf(w, "sidebar\t%s\n", openClosed(p.SidebarOpen(true)))
	_, _ = fmt.Fprintf(w, "timezone\t%s\n", p.Timezone(dates.DefaultTimezone()))
	return w.Flush()
}

// PrefsSidebarCommand toggles the sidebar, or sets it with "open" or "closed".
func PrefsSidebarCommand(p *prefs.Store, args []string) error {
	var open bool
	var err error
	switch {
	case len(args) == 0:
		open, err = p.ToggleSidebar(true)
	case args[0] == "open":
		open, err = true, p.SetSidebarOpen(true)
	case args[0] == "closed":
		open, err = false, p.SetSidebarOpen(false)
	default:
		return fmt.Errorf("usage: prefs sidebar [open|closed]")
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "✓ Sidebar %s\n", openClosed(open))
	return nil
}

// PrefsTimezoneCommand stores the local viewer timezone without touching the backend.
func PrefsTimezoneCommand(p *prefs.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: prefs timezone <IANA name>")
	}
	if err := p.SetTimezone(args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "✓ Local timezone set to %s\n", args[0])
	return nil
}

func openClosed(open bool) string {
	if open {
		return "open"
	}
	return "closed"
}

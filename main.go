// ABOUTME: Entry point for the solo CRM CLI, TUI, HTTP API and MCP server
// ABOUTME: Loads configuration, opens the backend and routes to subcommands
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/harperreed/solocrm/charm"
	"github.com/harperreed/solocrm/cli"
	"github.com/harperreed/solocrm/config"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/dates"
	"github.com/harperreed/solocrm/db"
	"github.com/harperreed/solocrm/logging"
	"github.com/harperreed/solocrm/models"
	"github.com/harperreed/solocrm/prefs"
)

const version = "0.1.0"

// app holds what subcommands share once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	prefs   *prefs.Store
	backend crm.Backend
	charm   *charm.Client
	closer  io.Closer
}

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/solocrm/crm.db)")
	backendName := flag.String("backend", "", "Storage backend: sqlite or charm")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("solocrm version %s\n", version)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if *backendName != "" {
		cfg.Backend = *backendName
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, logger: logger}
	err = a.run(ctx, args[0], args[1:])
	a.close()
	if err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			printUsage()
		}
		logger.Error("command failed", "command", args[0], "err", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "prefs":
		if err := a.openPrefs(); err != nil {
			return err
		}
		return a.prefsCommand(args)

	case "token":
		return cli.TokenCommand(a.cfg.JWTSecret, a.user(), args)

	case "google":
		if len(args) > 0 && args[0] == "auth" {
			return cli.GoogleAuthCommand(ctx, args[1:])
		}

	case "sync":
		return a.syncCommand(args)

	case "serve":
		if err := a.openBackend(); err != nil {
			return err
		}
		return cli.ServeCommand(ctx, a.backend, a.cfg.JWTSecret, a.defaultTimezone(), a.cfg.Port, a.logger, args)
	}

	session, err := a.session(ctx)
	if err != nil {
		return err
	}

	switch command {
	case "crm":
		return a.crmCommand(ctx, session, args)
	case "settings":
		return a.settingsCommand(ctx, session, args)
	case "activity":
		return a.activityCommand(ctx, session, args)
	case "export":
		return cli.ExportCommand(session, args)
	case "import":
		return cli.ImportCommand(session, args)
	case "analytics":
		return cli.AnalyticsCommand(session, args)
	case "viz":
		if len(args) == 0 || args[0] != "graph" {
			return usageError("viz requires a subcommand: graph")
		}
		return cli.VizGraphCommand(ctx, session, args[1:])
	case "google":
		if len(args) == 0 || args[0] != "import" {
			return usageError("google requires a subcommand: auth or import")
		}
		return cli.GoogleImportCommand(ctx, session, args[1:])
	case "tui":
		return cli.TUICommand(ctx, session, a.prefs)
	case "mcp":
		return cli.MCPCommand(ctx, session, a.logger)
	default:
		return usageError("unknown command: " + command)
	}
}

func (a *app) crmCommand(ctx context.Context, session *crm.Session, args []string) error {
	if len(args) == 0 {
		return usageError("crm requires a subcommand")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "add-contact":
		return cli.AddContactCommand(ctx, session, rest)
	case "list-contacts":
		return cli.ListContactsCommand(session, rest)
	case "update-contact":
		return cli.UpdateContactCommand(ctx, session, rest)
	case "delete-contact":
		return cli.DeleteContactCommand(ctx, session, rest)
	case "add-interaction":
		return cli.AddInteractionCommand(ctx, session, rest)
	case "list-interactions":
		return cli.ListInteractionsCommand(session, rest)
	case "update-interaction":
		return cli.UpdateInteractionCommand(ctx, session, rest)
	case "delete-interaction":
		return cli.DeleteInteractionCommand(ctx, session, rest)
	default:
		return usageError("unknown crm command: " + sub)
	}
}

func (a *app) settingsCommand(ctx context.Context, session *crm.Session, args []string) error {
	if len(args) == 0 || args[0] == "show" {
		return cli.SettingsShowCommand(session, nil)
	}
	if args[0] == "set" {
		return cli.SettingsSetCommand(ctx, session, args[1:])
	}
	return usageError("unknown settings command: " + args[0])
}

func (a *app) activityCommand(ctx context.Context, session *crm.Session, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		var rest []string
		if len(args) > 0 {
			rest = args[1:]
		}
		return cli.ActivityListCommand(ctx, session, a.cfg.Locale, rest)
	}
	if args[0] == "clear" {
		return cli.ActivityClearCommand(ctx, session, args[1:])
	}
	return usageError("unknown activity command: " + args[0])
}

func (a *app) prefsCommand(args []string) error {
	if len(args) == 0 || args[0] == "show" {
		return cli.PrefsShowCommand(a.prefs, nil)
	}
	switch args[0] {
	case "sidebar":
		return cli.PrefsSidebarCommand(a.prefs, args[1:])
	case "timezone":
		return cli.PrefsTimezoneCommand(a.prefs, args[1:])
	default:
		return usageError("unknown prefs command: " + args[0])
	}
}

func (a *app) syncCommand(args []string) error {
	if a.cfg.Backend != config.BackendCharm {
		return fmt.Errorf("sync commands need the charm backend (set SOLOCRM_BACKEND=charm)")
	}
	if err := a.openBackend(); err != nil {
		return err
	}
	if len(args) == 0 || args[0] == "status" {
		return cli.SyncStatusCommand(a.charm, nil)
	}
	switch args[0] {
	case "now":
		return cli.SyncNowCommand(a.charm, args[1:])
	case "auto":
		return cli.SyncAutoCommand(a.charm, args[1:])
	default:
		return usageError("unknown sync command: " + args[0])
	}
}

func (a *app) openPrefs() error {
	if a.prefs != nil {
		return nil
	}
	p, err := prefs.Open(a.cfg.PrefsDir)
	if err != nil {
		return err
	}
	a.prefs = p
	return nil
}

func (a *app) openBackend() error {
	if a.backend != nil {
		return nil
	}

	switch a.cfg.Backend {
	case config.BackendCharm:
		charmCfg, err := charm.ConfigFrom(a.cfg)
		if err != nil {
			return fmt.Errorf("failed to load charm config: %w", err)
		}
		client, err := charm.NewClient(charmCfg)
		if err != nil {
			return err
		}
		a.charm = client
		a.backend = charm.NewRepository(client)
		a.logger.Debug("using charm backend", "host", client.Config().Host)

	default:
		if err := os.MkdirAll(filepath.Dir(a.cfg.DBPath), 0700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		repo, err := db.Open(a.cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.backend = repo
		a.closer = repo
		a.logger.Debug("using sqlite backend", "path", a.cfg.DBPath)
	}
	return nil
}

// defaultTimezone prefers the configured zone, then the local preference, then the host zone.
func (a *app) defaultTimezone() string {
	if dates.ValidTimezone(a.cfg.Timezone) {
		return a.cfg.Timezone
	}
	if a.prefs != nil {
		return a.prefs.Timezone(dates.DefaultTimezone())
	}
	return dates.DefaultTimezone()
}

func (a *app) user() models.User {
	return models.User{ID: a.cfg.UserID, Email: a.cfg.UserEmail}
}

func (a *app) session(ctx context.Context) (*crm.Session, error) {
	if err := a.openPrefs(); err != nil {
		return nil, err
	}
	if err := a.openBackend(); err != nil {
		return nil, err
	}

	session := crm.NewSession(a.backend, a.logger,
		crm.WithTimezoneSink(a.prefs),
		crm.WithDefaultTimezone(a.defaultTimezone()))
	if err := session.SignIn(ctx, a.user()); err != nil {
		return nil, err
	}
	return session, nil
}

func (a *app) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

type usageError string

func (e usageError) Error() string { return string(e) }

func printUsage() {
	fmt.Printf(`solocrm v%s - Personal CRM

USAGE:
  solocrm [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/solocrm/crm.db)
  --backend <name>       sqlite (default) or charm

COMMANDS:
  crm                    Contact and interaction management
  settings               Show or change user settings
  activity               Show or clear the activity log
  export                 Write a JSON backup
  import                 Load a JSON backup into this session (nothing is saved)
  prefs                  Local preferences (sidebar, timezone)
  analytics              Print the dashboard (--json for raw stats)
  viz graph              Contact network graph (--format dot|svg|png, --output <file>)
  token                  Issue a bearer token for the HTTP API
  google                 Google Contacts: auth, import
  sync                   Charm sync: status, now, auto <on|off>
  tui                    Open the terminal UI
  serve                  Start the HTTP API (--addr, --token-ttl)
  mcp                    Start the MCP server on stdio

CRM COMMANDS:
  solocrm crm add-contact          --first --last [--email --phone --company --position --notes --tags a,b --follow-up YYYY-MM-DD]
  solocrm crm list-contacts        [--query --tag --sort name|company|date --limit]
  solocrm crm update-contact       [flags] <id>   (flags must come before the ID; --follow-up none clears)
  solocrm crm delete-contact       [--force] <id> (interactions are kept)
  solocrm crm add-interaction      --contact <id> --notes [--type --date --follow-up]
  solocrm crm list-interactions    [--query --contact --type --sort date|type|contact --limit]
  solocrm crm update-interaction   [flags] <id>
  solocrm crm delete-interaction   [--force] <id>

SETTINGS:
  solocrm settings show
  solocrm settings set <timezone|theme|notifications> <value>
  solocrm activity list [--limit n]
  solocrm activity clear [--force]
  solocrm prefs show | sidebar [open|closed] | timezone <zone>

EXAMPLES:
  solocrm crm add-contact --first John --last Smith --email john@acme.com --company "Acme Corp" --tags vip
  solocrm crm add-interaction --contact <id> --type Meeting --notes "Coffee at the office"
  solocrm settings set timezone Europe/London
  SOLOCRM_JWT_SECRET=... solocrm serve --addr :8080

`, version)
}

// ABOUTME: Migration utility for copying one user's CRM data between backends.
// ABOUTME: Copies SQLite to Charm KV or back, with dry-run and SQLite backup support.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/solocrm/charm"
	"github.com/harperreed/solocrm/config"
	"github.com/harperreed/solocrm/crm"
	"github.com/harperreed/solocrm/db"
	"github.com/harperreed/solocrm/logging"
)

// activityCopyLimit bounds how much of the activity log is carried over.
const activityCopyLimit = 10000

// Summary counts what a migration copied or would copy.
type Summary struct {
	Contacts     int
	Interactions int
	Activities   int
	Settings     bool
	Skipped      int
}

func main() {
	dbPath := flag.String("db", "", "Path to SQLite database file (required)")
	direction := flag.String("to", config.BackendCharm, "Destination backend: charm or sqlite")
	userID := flag.String("user", "local", "User whose records are copied")
	dryRun := flag.Bool("dry-run", false, "Show what would happen without making changes")
	backup := flag.Bool("backup", true, "Back up the SQLite file before writing to it")
	flag.Parse()

	logger := logging.New("info", "text")

	if *dbPath == "" {
		logger.Fatal("-db flag is required")
	}
	if _, err := os.Stat(*dbPath); os.IsNotExist(err) && *direction == config.BackendCharm {
		logger.Fatal("database file does not exist", "path", *dbPath)
	}

	repo, err := db.Open(*dbPath)
	if err != nil {
		logger.Fatal("failed to open database", "err", err)
	}
	defer func() { _ = repo.Close() }()

	appCfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}
	charmCfg, err := charm.ConfigFrom(appCfg)
	if err != nil {
		logger.Fatal("failed to load charm config", "err", err)
	}
	client, err := charm.NewClient(charmCfg)
	if err != nil {
		logger.Fatal("failed to open charm kv", "err", err)
	}
	kv := charm.NewRepository(client)

	var src, dst crm.Backend
	switch *direction {
	case config.BackendCharm:
		src, dst = repo, kv
	case config.BackendSQLite:
		src, dst = kv, repo
		if *backup && !*dryRun {
			if err := backupFile(*dbPath, time.Now()); err != nil {
				logger.Fatal("backup failed", "err", err)
			}
		}
	default:
		logger.Fatal("unknown destination", "to", *direction)
	}

	summary, err := migrate(context.Background(), src, dst, *userID, *dryRun, logger)
	if err != nil {
		logger.Fatal("migration failed", "err", err)
	}

	if *direction == config.BackendCharm && !*dryRun {
		if err := client.Sync(); err != nil {
			logger.Warn("charm sync failed; data is stored locally", "err", err)
		}
	}

	logger.Info("migration completed",
		"dry_run", *dryRun,
		"contacts", summary.Contacts,
		"interactions", summary.Interactions,
		"activities", summary.Activities,
		"settings", summary.Settings,
		"skipped", summary.Skipped)
}

// migrate copies every record of userID from src to dst. Records whose id
// already exists at dst are skipped, so reruns are safe.
func migrate(ctx context.Context, src, dst crm.Backend, userID string, dryRun bool, logger *log.Logger) (Summary, error) {
	var summary Summary
	prefix := ""
	if dryRun {
		prefix = "[DRY RUN] "
	}

	contacts, err := src.ListContacts(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to list contacts: %w", err)
	}
	existingContacts, err := dst.ListContacts(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to list destination contacts: %w", err)
	}
	seen := make(map[string]bool, len(existingContacts))
	for _, c := range existingContacts {
		seen[c.ID] = true
	}
	for _, c := range contacts {
		if seen[c.ID] {
			summary.Skipped++
			continue
		}
		logger.Debug(prefix+"copy contact", "id", c.ID)
		if !dryRun {
			if _, err := dst.InsertContact(ctx, userID, c); err != nil {
				return summary, fmt.Errorf("failed to copy contact %s: %w", c.ID, err)
			}
		}
		summary.Contacts++
	}

	interactions, err := src.ListInteractions(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to list interactions: %w", err)
	}
	existingInteractions, err := dst.ListInteractions(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to list destination interactions: %w", err)
	}
	seen = make(map[string]bool, len(existingInteractions))
	for _, i := range existingInteractions {
		seen[i.ID] = true
	}
	for _, i := range interactions {
		if seen[i.ID] {
			summary.Skipped++
			continue
		}
		logger.Debug(prefix+"copy interaction", "id", i.ID)
		if !dryRun {
			if _, err := dst.InsertInteraction(ctx, userID, i); err != nil {
				return summary, fmt.Errorf("failed to copy interaction %s: %w", i.ID, err)
			}
		}
		summary.Interactions++
	}

	settings, err := src.GetSettings(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("failed to read settings: %w", err)
	}
	if settings != nil {
		if !dryRun {
			if err := dst.UpsertSettings(ctx, userID, *settings); err != nil {
				return summary, fmt.Errorf("failed to copy settings: %w", err)
			}
		}
		summary.Settings = true
	}

	activities, err := src.ListActivities(ctx, userID, activityCopyLimit)
	if err != nil {
		return summary, fmt.Errorf("failed to list activity: %w", err)
	}
	existingActivities, err := dst.ListActivities(ctx, userID, activityCopyLimit)
	if err != nil {
		return summary, fmt.Errorf("failed to list destination activity: %w", err)
	}
	seen = make(map[string]bool, len(existingActivities))
	for _, a := range existingActivities {
		seen[a.ID] = true
	}
	// Oldest first so the destination log keeps its order.
	for i := len(activities) - 1; i >= 0; i-- {
		a := activities[i]
		if seen[a.ID] {
			summary.Skipped++
			continue
		}
		if !dryRun {
			if err := dst.InsertActivity(ctx, a); err != nil {
				return summary, fmt.Errorf("failed to copy activity %s: %w", a.ID, err)
			}
		}
		summary.Activities++
	}

	return summary, nil
}

func backupFile(path string, now time.Time) error {
	input, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read database: %w", err)
	}
	backupPath := fmt.Sprintf("%s.backup.%s", path, now.Format("20060102-150405"))
	if err := os.WriteFile(backupPath, input, 0600); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	return nil
}

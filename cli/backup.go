// ABOUTME: Export and import commands for JSON backups
// ABOUTME: Import loads a backup into this session's view without writing to the backend
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/solocrm/backup"
	"github.com/harperreed/solocrm/crm"
)

// ExportCommand writes the session's contacts, interactions and settings as JSON.
func ExportCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	output := fs.String("output", "", "Output file (default: crm-backup-<date>.json, '-' for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	at := now()
	if *output == "-" {
		return backup.Export(stdout, session.State(), session.Settings(), at)
	}

	path := *output
	if path == "" {
		path = backup.Filename(at)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := backup.Export(f, session.State(), session.Settings(), at); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	state := session.State()
	_, _ = fmt.Fprintf(stdout, "✓ Exported %d contacts and %d interactions to %s\n",
		len(state.Contacts), len(state.Interactions), path)
	return nil
}

// ImportCommand loads a backup file into the session and lists what it holds.
// Nothing is written to the backend.
func ImportCommand(session *crm.Session, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	quiet := fs.Bool("quiet", false, "Only print the summary")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("backup file is required")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := backup.Import(f, session.Store())
	if err != nil {
		return err
	}

	if res.ContactsReplaced {
		_, _ = fmt.Fprintf(stdout, "✓ Loaded %d contacts\n", res.ContactCount)
	}
	if res.InteractionsReplaced {
		_, _ = fmt.Fprintf(stdout, "✓ Loaded %d interactions\n", res.InteractionCount)
	}
	if !res.ContactsReplaced && !res.InteractionsReplaced {
		_, _ = fmt.Fprintln(stdout, "Backup contained no contacts or interactions")
		return nil
	}

	if *quiet {
		return nil
	}
	_, _ = fmt.Fprintln(stdout)
	return ListContactsCommand(session, nil)
}

// ABOUTME: The audit subcommand lists registration audit entries from the local database
// ABOUTME: Reads the store directly, so it works while the server is stopped

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/2389/pqlab/internal/config"
	"github.com/2389/pqlab/internal/store"
)

const auditUsage = "usage: pqlab-server audit [--actor <uuid>] [--target <uuid>] [--since <duration>] [--limit N]"

func runAudit(ctx context.Context, args []string) error {
	filter, err := parseAuditArgs(args, time.Now())
	if err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	return listAudit(ctx, s, filter, os.Stdout)
}

// parseAuditArgs builds a filter from --flag value pairs. --since takes a
// duration relative to now.
func parseAuditArgs(args []string, now time.Time) (store.AuditFilter, error) {
	var f store.AuditFilter

	for i := 0; i < len(args); i++ {
		flag := args[i]
		if i+1 >= len(args) {
			return f, fmt.Errorf("%s requires a value\n%s", flag, auditUsage)
		}
		value := args[i+1]
		i++

		switch flag {
		case "--actor", "-a":
			id, err := uuid.Parse(value)
			if err != nil {
				return f, fmt.Errorf("invalid actor: %w", err)
			}
			actor := id.String()
			f.ActorUserID = &actor
		case "--target", "-t":
			id, err := uuid.Parse(value)
			if err != nil {
				return f, fmt.Errorf("invalid target: %w", err)
			}
			target := id.String()
			f.TargetID = &target
		case "--since", "-s":
			d, err := time.ParseDuration(value)
			if err != nil {
				return f, fmt.Errorf("invalid since: %w", err)
			}
			since := now.Add(-d)
			f.Since = &since
		case "--limit", "-n":
			n, err := strconv.Atoi(value)
			if err != nil || n <= 0 {
				return f, fmt.Errorf("invalid limit: %q", value)
			}
			f.Limit = n
		default:
			return f, fmt.Errorf("unknown flag: %s\n%s", flag, auditUsage)
		}
	}

	return f, nil
}

func listAudit(ctx context.Context, s store.AuditStore, f store.AuditFilter, out io.Writer) error {
	entries, err := s.ListAuditLog(ctx, f)
	if err != nil {
		return fmt.Errorf("listing audit log: %w", err)
	}

	cyan := color.New(color.FgCyan)
	fmt.Fprintln(out)
	cyan.Fprintln(out, "  Audit Log")
	cyan.Fprintln(out, "  ---------")

	if len(entries) == 0 {
		fmt.Fprintln(out, "  (no entries)")
		fmt.Fprintln(out)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  TIME\tACTION\tACTOR\tTARGET\tFINGERPRINT")
	fmt.Fprintln(w, "  ----\t------\t-----\t------\t-----------")

	for _, e := range entries {
		fingerprint, _ := e.Detail["key_fingerprint"].(string)
		if fingerprint == "" {
			fingerprint = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.UTC().Format(time.RFC3339),
			e.Action,
			e.ActorUserID,
			e.TargetID,
			fingerprint,
		)
	}
	w.Flush()
	fmt.Fprintln(out)

	return nil
}

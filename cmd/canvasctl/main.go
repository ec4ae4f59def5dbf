// Package main is canvasctl, the operator CLI for offline database
// maintenance: auditing canvas/list drift, repairing it, and renormalizing
// task order keys.
//
// canvasctl opens the SQLite file directly — run it against a stopped server
// or a copy of the database, not a live one.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/repair"
	sqliteRepo "github.com/jpcpamies/IdeaFlow-sub000/internal/repository/sqlite"
)

func main() {
	if err := newRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "canvasctl",
		Short:         "Operator tooling for the IdeaFlow database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "data/ideaflow.db", "path to the SQLite database file")

	root.AddCommand(
		auditCmd(&dbPath),
		repairCmd(&dbPath),
		renormCmd(&dbPath),
	)
	return root
}

// openDB opens the database the same way the server does, migrations
// included, so canvasctl never sees a schema the server wouldn't.
func openDB(path string) (*sqliteRepo.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("database %s: %w", path, err)
	}
	return sqliteRepo.New(path)
}

// auditCmd reports canvas/list drift without touching anything.
func auditCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Scan for drift between canvas ideas and todo list tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			report, err := repair.Audit(cmd.Context(), db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scanned %d linked tasks\n", report.Scanned)
			fmt.Fprintf(out, "  orphans:    %d\n", report.Count(repair.KindOrphan))
			fmt.Fprintf(out, "  misplaced:  %d\n", report.Count(repair.KindMisplaced))
			fmt.Fprintf(out, "  unroutable: %d\n", report.Count(repair.KindUnroutable))
			for _, f := range report.Findings {
				fmt.Fprintf(out, "%s\ttask=%s\tlist=%s\tidea=%s\n", f.Kind, f.TaskID, f.TodoListID, f.IdeaID)
			}
			if len(report.Findings) == 0 {
				fmt.Fprintln(out, "database is consistent")
			}
			return nil
		},
	}
}

// repairCmd moves misplaced tasks to the list their idea's group points at.
// Orphans and unroutable tasks are reported but never deleted — destroying
// data is a human decision.
func repairCmd(dbPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Move misplaced tasks back to their group's todo list",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()

			if dryRun {
				report, err := repair.Audit(cmd.Context(), db)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "dry run: would move %d misplaced tasks (%d findings total)\n",
					report.Count(repair.KindMisplaced), len(report.Findings))
				return nil
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			result, err := repair.Repair(cmd.Context(), db, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "moved %d tasks, skipped %d findings\n", result.Moved, len(result.Skipped))
			for _, f := range result.Skipped {
				fmt.Fprintf(out, "skipped (%s)\ttask=%s\tidea=%s\n", f.Kind, f.TaskID, f.IdeaID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")
	return cmd
}

// renormCmd rewrites each sibling bucket's order keys to 0..n-1. Fractional
// midpoint keys accumulate precision over time; renormalization resets them
// without changing the visible order.
func renormCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "renorm",
		Short: "Rewrite task order keys to small integers",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(*dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := repair.Renormalize(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d order keys\n", n)
			return nil
		},
	}
}

/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-migrate/migrate"
)

var migrateUsage = strings.TrimSpace(`
Copy the given spaces from the source instance into the destination instance.  Spaces that don't
exist in the destination yet are created.  Pages keep their hierarchy, and get their labels,
attachments and comments copied along with them.

Nothing that fails along the way stops the run: failures are reported per space at the end, and
in the --report file if you ask for one.
`)

var (
	Workers  int
	PageSize int
	Progress bool
	Report   string
)

var errItemsFailed = errors.New("some items could not be migrated")

var migrateCmd = &cobra.Command{
	Use:   "migrate [SPACE...]",
	Short: "Migrate spaces to the destination instance",
	Long:  migrateUsage,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := selectedSpaces(args)
		if err != nil {
			return err
		}

		m, err := newMigrator(Workers, PageSize, Progress)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				slog.Error("Couldn't save VCR recording", "err", err)
			}
		}()

		report := migrate.NewReport(RunID)
		slog.Info("Starting migration", "spaces", keys, "from", SourceInstance, "to", DestInstance)

		results, err := m.MigrateSpaces(cmd.Context(), keys)
		if err != nil {
			return err
		}
		report.Finish(results)

		fmt.Println()
		migrate.PrintSummary(os.Stdout, results)

		if Report != "" {
			if err := report.WriteReport(Report); err != nil {
				return err
			}
			slog.Info("Wrote report", "report", Report)
		}

		if !report.OK() {
			return fmt.Errorf("migrate: %w", errItemsFailed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	addSelectionFlags(migrateCmd)
	migrateCmd.Flags().IntVar(&Workers, "workers", 1, "attachments to transfer at once, per page")
	migrateCmd.Flags().IntVar(&PageSize, "page-size", 100, "pages to request at a time when listing a space")
	migrateCmd.Flags().BoolVar(&Progress, "progress", false, "show a progress bar per space")
	migrateCmd.Flags().StringVar(&Report, "report", "", "write a YAML report of the run to this file")
}

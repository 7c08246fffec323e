/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-migrate/internal/termfmt"
	"github.com/toothbrush/confluence-migrate/migrate"
)

var planUsage = strings.TrimSpace(`
Show what 'migrate' would do with the given spaces, without writing anything to the destination:
whether each space needs creating, and the page tree in the order pages would be created.
`)

var planCmd = &cobra.Command{
	Use:   "plan [SPACE...]",
	Short: "Dry run of a migration",
	Long:  planUsage,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := selectedSpaces(args)
		if err != nil {
			return err
		}

		m, err := newMigrator(1, PageSize, false)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(); err != nil {
				slog.Error("Couldn't save VCR recording", "err", err)
			}
		}()

		plans, err := m.Plan(cmd.Context(), keys)
		if err != nil {
			return err
		}

		printPlans(os.Stdout, plans)
		return nil
	},
}

func printPlans(w io.Writer, plans []migrate.SpacePlan) {
	bold := termfmt.Bold()
	dim := termfmt.Fg(termfmt.DarkGrey)
	warn := termfmt.Fg(termfmt.Yellow)

	for _, plan := range plans {
		state := "will be created"
		if plan.Exists {
			state = "exists"
		}
		fmt.Fprintf(w, "%s (%s, %d pages)\n", bold.V(plan.SpaceKey), state, len(plan.Pages))

		for _, page := range plan.Pages {
			indent := strings.Repeat("  ", page.Depth+1)
			fmt.Fprintf(w, "%s- %s %s", indent, page.Title, dim.V("["+page.ID+"]"))
			if page.Orphaned {
				fmt.Fprintf(w, " %s", warn.V("(parent not migrated, goes to root)"))
			}
			fmt.Fprintln(w)
			if page.Excerpt != "" {
				fmt.Fprintf(w, "%s  %s\n", indent, dim.V(page.Excerpt))
			}
		}

		for _, problem := range plan.Problems {
			fmt.Fprintf(w, "  %s %s\n", warn.V("!"), problem)
		}
		fmt.Fprintln(w)
	}
}

func init() {
	rootCmd.AddCommand(planCmd)

	addSelectionFlags(planCmd)
	planCmd.Flags().IntVar(&PageSize, "page-size", 100, "pages to request at a time when listing a space")
}

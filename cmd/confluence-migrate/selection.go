package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-migrate/migrate"
)

var (
	SelectionFile string
	Spaces        []string
)

func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&SelectionFile, "selection", "", `JSON file of the form {"selectedSpaces": ["KEY", ...]}`)
	cmd.Flags().StringSliceVar(&Spaces, "spaces", []string{}, "space keys to work on, if none are given as arguments")
}

// selectedSpaces picks the space keys to work on: command line arguments win, then the selection
// file, then the spaces flag (or config key).
func selectedSpaces(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, migrate.ValidateSelection(args)
	}

	if SelectionFile != "" {
		path, err := homedir.Expand(SelectionFile)
		if err != nil {
			return nil, fmt.Errorf("confluence-migrate: unable to expand homedir: %w", err)
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("confluence-migrate: couldn't read selection file: %w", err)
		}
		return migrate.ParseSelection(raw)
	}

	return Spaces, migrate.ValidateSelection(Spaces)
}

// newMigrator resolves both sets of credentials and connects a Migrator.
func newMigrator(workers, pageSize int, progress bool) (*migrate.Migrator, error) {
	source, err := sourceCredentials()
	if err != nil {
		return nil, err
	}
	destination, err := destinationCredentials()
	if err != nil {
		return nil, err
	}

	cfg := migrate.Config{
		Source:         source,
		Destination:    destination,
		Workers:        workers,
		PageSize:       pageSize,
		RequestTimeout: RequestTimeout,
		ShowProgress:   progress,
	}
	if WithVCR {
		cfg.Cassette = "fixtures/confluence-migrate"
	}

	return migrate.New(cfg)
}

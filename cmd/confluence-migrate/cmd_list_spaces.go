/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toothbrush/confluence-migrate/confluence"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

var listSpacesUsage = strings.TrimSpace(`
If you want to find out what spaces your source Confluence wiki has, use this command.  With
--destination, list the destination's spaces instead.
`)

var (
	IncludePersonal bool
	ListDestination bool
)

var listSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Print list of spaces",
	Long:  listSpacesUsage,
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		which, credentials := "source", sourceCredentials
		if ListDestination {
			which, credentials = "destination", destinationCredentials
		}
		creds, err := credentials()
		if err != nil {
			return err
		}

		api, err := confluence.NewAPIFromCredentials(creds)
		if err != nil {
			return fmt.Errorf("list: couldn't instantiate Confluence API: %w", err)
		}
		if WithVCR {
			stop, err := api.Record("fixtures/confluence-migrate-"+which, recorder.ModeReplayWithNewEpisodes)
			if err != nil {
				return err
			}
			defer stop()
		}
		api.Client.Timeout = RequestTimeout

		user, err := api.CurrentUser(cmd.Context())
		if err != nil {
			return fmt.Errorf("list: couldn't query current user: %w", err)
		}
		slog.Debug("Logged in", "user", user.DisplayName, "account", user.AccountID, "host", api.Host())

		slog.Info("Listing Confluence spaces", "instance", creds.Instance)
		spaces, err := api.ListAllSpaces(cmd.Context(), creds.Instance, IncludePersonal)
		if err != nil {
			return fmt.Errorf("list: couldn't list Confluence spaces: %w", err)
		}

		slog.Info("Found spaces", "count", len(spaces), "instance", creds.Instance)

		spaceKeys := maps.Keys(spaces)
		slices.Sort(spaceKeys)

		fmt.Printf("spaces:\n")
		for _, spaceKey := range spaceKeys {
			fmt.Printf("  - %s: %s\n", spaceKey, spaces[spaceKey].Name)
		}

		return nil
	},
}

func init() {
	listCmd.AddCommand(listSpacesCmd)

	listSpacesCmd.Flags().BoolVar(&IncludePersonal, "include-personal-spaces", false, "list individuals' personal spaces")
	listSpacesCmd.Flags().BoolVar(&ListDestination, "destination", false, "list the destination instance's spaces")
}

/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Tokens are
never printed, only where they would come from.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(os.Stdout)
	},
}

func showConfig(w io.Writer) error {
	// Note, you can only talk about persistent flags here.  Command-specific ones won't be
	// visible.
	fmt.Fprintf(w, "Current config state:\n\n")

	fmt.Fprintf(w, "  Config file: %s\n", ConfigActual)
	fmt.Fprintf(w, "  Debug: %v\n", Debug)
	fmt.Fprintf(w, "  Run: %s\n", RunID)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Source: %s as %s, token from %s\n", SourceInstance, SourceUsername, tokenSource(SourceTokenCmd, sourceTokenEnv))
	fmt.Fprintf(w, "  Destination: %s as %s, token from %s\n", DestInstance, DestUsername, tokenSource(DestTokenCmd, destTokenEnv))
	fmt.Fprintf(w, "  WithVCR: %v\n", WithVCR)
	fmt.Fprintf(w, "  RequestTimeout: %v\n", RequestTimeout)
	fmt.Fprintln(w)

	out, err := yaml.Marshal(ParsedConfig)
	if err != nil {
		return fmt.Errorf("config: couldn't render parsed config: %w", err)
	}
	fmt.Fprintf(w, "  Parsed YAML:\n%s\n", out)

	return nil
}

func tokenSource(tokenCmd []string, envVar string) string {
	if len(tokenCmd) > 0 {
		return fmt.Sprintf("%v", tokenCmd)
	}
	return "$" + envVar
}

func init() {
	configCmd.AddCommand(showCmd)
}

/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// whichCmd represents the which command
var whichCmd = &cobra.Command{
	Use:   "which",
	Short: "Tell me the resolved config path",
	Long: `
Output the filename the config is read from, and whether it's there at all.
`,
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := os.Stat(ConfigActual); err != nil {
			fmt.Printf("Config path: %s (not found, using flags only)\n", ConfigActual)
			return
		}
		fmt.Printf("Config path: %s\n", ConfigActual)
	},
}

func init() {
	configCmd.AddCommand(whichCmd)
}

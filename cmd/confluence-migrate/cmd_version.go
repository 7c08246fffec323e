/*
Copyright © 2024 paul <paul@denknerd.org>
*/
package main

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var versionUsage = strings.TrimSpace(`
Show version information
`)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: versionUsage,
	Long:  versionUsage,
	RunE:  versionRun,
	Args:  cobra.ExactArgs(0),
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var (
	// Version will be the version tag if the binary is built with "go install url/tool@version".
	// If the binary is built some other way, it will be "(devel)".
	Version = "unknown"
)

type buildVersion struct {
	Revision   string
	LastCommit time.Time
	Dirty      bool
}

func readBuildVersion(settings []debug.BuildSetting) buildVersion {
	v := buildVersion{Revision: "unknown", Dirty: true}
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			v.Revision = kv.Value
		case "vcs.time":
			v.LastCommit, _ = time.Parse(time.RFC3339, kv.Value)
		case "vcs.modified":
			v.Dirty = kv.Value == "true"
		}
	}
	return v
}

func shortVersion(version string, v buildVersion) string {
	parts := make([]string, 0, 4)
	if version != "unknown" && version != "(devel)" && version != "" {
		parts = append(parts, version)
	}
	if v.Revision != "unknown" && v.Revision != "" {
		parts = append(parts, "rev", v.Revision)
		if v.Dirty {
			parts = append(parts, "dirty")
		}
	}
	if len(parts) == 0 {
		return "devel"
	}
	return strings.Join(parts, "-")
}

func versionRun(cmd *cobra.Command, args []string) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fmt.Errorf("cmd_version: could not read build info")
	}
	if Version == "unknown" {
		Version = info.Main.Version
	}

	fmt.Printf("confluence-migrate version %s\n", shortVersion(Version, readBuildVersion(info.Settings)))
	return nil
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toothbrush/confluence-migrate/internal/termfmt"
	"github.com/toothbrush/confluence-migrate/migrate"
	"gopkg.in/yaml.v2"
)

type boundFlags struct {
	instance string
	workers  int
	progress bool
	tokenCmd []string
	spaces   []string
}

func testCommand() (*cobra.Command, *boundFlags) {
	v := &boundFlags{}
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&v.instance, "source-instance", "", "")
	cmd.Flags().IntVar(&v.workers, "workers", 1, "")
	cmd.Flags().BoolVar(&v.progress, "progress", false, "")
	cmd.Flags().StringSliceVar(&v.tokenCmd, "source-token-cmd", []string{}, "")
	cmd.Flags().StringSliceVar(&v.spaces, "spaces", []string{}, "")
	return cmd, v
}

func TestBindFlags(t *testing.T) {
	var cfg YamlConfig
	require.NoError(t, yaml.UnmarshalStrict([]byte(`
source-instance: acme
workers: 4
progress: true
source-token-cmd: [pass, show, confluence]
spaces: [ENG, OPS]
dest-instance: ignored-by-this-command
`), &cfg))

	cmd, v := testCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--workers", "2"}))
	require.NoError(t, bindFlags(cmd, cfg))

	assert.Equal(t, "acme", v.instance)
	assert.Equal(t, 2, v.workers, "flags given on the command line win")
	assert.True(t, v.progress)
	assert.Equal(t, []string{"pass", "show", "confluence"}, v.tokenCmd)
	assert.Equal(t, []string{"ENG", "OPS"}, v.spaces)
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	var cfg YamlConfig
	assert.Error(t, yaml.UnmarshalStrict([]byte("auth-token-cmd: [nope]\n"), &cfg))
}

func TestResolveToken(t *testing.T) {
	t.Setenv("TEST_CONFLUENCE_TOKEN", "  from-env \n")

	token, err := resolveToken("source", nil, "TEST_CONFLUENCE_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)

	token, err = resolveToken("source", []string{"printf", "from-cmd\nsecond line\n"}, "TEST_CONFLUENCE_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "from-cmd", token)

	_, err = resolveToken("dest", nil, "TEST_CONFLUENCE_TOKEN_UNSET")
	assert.ErrorContains(t, err, "--dest-token-cmd")

	_, err = resolveToken("dest", []string{"/does/not/exist"}, "TEST_CONFLUENCE_TOKEN")
	assert.Error(t, err)
}

func TestSelectedSpaces(t *testing.T) {
	t.Cleanup(func() {
		SelectionFile = ""
		Spaces = nil
	})

	Spaces = []string{"FROM-CONFIG"}

	keys, err := selectedSpaces([]string{"ENG"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ENG"}, keys)

	keys, err = selectedSpaces(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"FROM-CONFIG"}, keys)

	SelectionFile = filepath.Join(t.TempDir(), "selection.json")
	require.NoError(t, os.WriteFile(SelectionFile, []byte(`{"selectedSpaces":["A","B"]}`), 0600))
	keys, err = selectedSpaces(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, keys)

	_, err = selectedSpaces([]string{"A", "A"})
	assert.ErrorIs(t, err, migrate.ErrInvalidInput)

	SelectionFile = ""
	Spaces = nil
	_, err = selectedSpaces(nil)
	assert.ErrorIs(t, err, migrate.ErrInvalidInput)
}

func TestShortVersion(t *testing.T) {
	v := readBuildVersion([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "abc123"},
		{Key: "vcs.time", Value: "2024-03-01T10:00:00Z"},
		{Key: "vcs.modified", Value: "false"},
	})
	assert.Equal(t, "abc123", v.Revision)
	assert.False(t, v.Dirty)
	assert.Equal(t, 2024, v.LastCommit.Year())

	assert.Equal(t, "v1.2.0-rev-abc123", shortVersion("v1.2.0", v))
	assert.Equal(t, "rev-abc123", shortVersion("(devel)", v))
	assert.Equal(t, "devel", shortVersion("(devel)", readBuildVersion(nil)))

	v.Dirty = true
	assert.Equal(t, "rev-abc123-dirty", shortVersion("", v))
}

func TestPrintPlans(t *testing.T) {
	termfmt.SetEnabled(false)
	t.Cleanup(func() { termfmt.SetEnabled(true) })

	var buf bytes.Buffer
	printPlans(&buf, []migrate.SpacePlan{{
		SpaceKey: "ENG",
		Pages: []migrate.PlannedPage{
			{ID: "1", Title: "Home", Excerpt: "# Welcome"},
			{ID: "2", Title: "Child", Depth: 1, ParentID: "1"},
			{ID: "3", Title: "Lost", Depth: 1, Orphaned: true},
		},
		Problems: []string{"skipping page without usable id: Ghost"},
	}})

	assert.Equal(t, ""+
		"ENG (will be created, 3 pages)\n"+
		"  - Home [1]\n"+
		"    # Welcome\n"+
		"    - Child [2]\n"+
		"    - Lost [3] (parent not migrated, goes to root)\n"+
		"  ! skipping page without usable id: Ghost\n"+
		"\n",
		buf.String())
}

func TestShowConfigHidesTokens(t *testing.T) {
	t.Setenv(destTokenEnv, "super-secret")
	SourceInstance, SourceUsername, SourceTokenCmd = "acme", "me@acme.test", []string{"pass", "show", "acme"}
	DestInstance, DestUsername = "https://wiki.example.test", "me@example.test"
	t.Cleanup(func() {
		SourceInstance, SourceUsername, SourceTokenCmd = "", "", nil
		DestInstance, DestUsername = "", ""
	})

	var buf bytes.Buffer
	require.NoError(t, showConfig(&buf))

	out := buf.String()
	assert.Contains(t, out, "Source: acme as me@acme.test, token from [pass show acme]")
	assert.Contains(t, out, "Destination: https://wiki.example.test as me@example.test, token from $CONFLUENCE_DEST_TOKEN")
	assert.NotContains(t, out, "super-secret")
}

package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRootCmd_Exists verifies getRootCmd returns
// a valid command.
func TestGetRootCmd_Exists(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd, "Root command should exist")
	assert.Equal(t, "gnaoi", cmd.Use)
	assert.NotNil(t, cmd.PersistentPreRunE,
		"PersistentPreRunE should be set for bootstrap")
	assert.NotNil(t, cmd.RunE)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)
}

// TestGetRootCmd_Version verifies version output with
// both flag forms.
func TestGetRootCmd_Version(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		cmd := getRootCmd()
		cmd.Version = "version: v1.2.3\nbuild:   abc123"

		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{flag})

		require.NoError(t, cmd.Execute(), flag)
		output := buf.String()
		assert.Contains(t, output, "v1.2.3", flag)
		assert.Contains(t, output, "abc123", flag)
		assert.NotContains(t, output, "gnaoi version", flag)
	}
}

// TestGetRootCmd_HelpText verifies help text content.
func TestGetRootCmd_HelpText(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	helpText := buf.String()
	for _, s := range []string{
		"GNaoi", "GNAOI_DATABASE_HOST", "ingest", "boundaries",
		"catalog", "select", "schema", "--jobs", "--catalog",
	} {
		assert.Contains(t, helpText, s)
	}
}

// TestGetRootCmd_Subcommands verifies the command tree.
func TestGetRootCmd_Subcommands(t *testing.T) {
	cmd := getRootCmd()
	tests := []struct {
		args []string
		use  string
	}{
		{[]string{"ingest"}, "ingest FILE..."},
		{[]string{"boundaries"}, "boundaries FILE..."},
		{[]string{"catalog", "import"}, "import FILE..."},
		{[]string{"select"}, "select AOI_FILE"},
		{[]string{"schema", "create"}, "create"},
		{[]string{"schema", "migrate"}, "migrate"},
	}
	for _, v := range tests {
		sub, _, err := cmd.Find(v.args)
		require.NoError(t, err, v.use)
		assert.Equal(t, v.use, sub.Use)
		assert.NotNil(t, sub.RunE, v.use)
	}
}

// TestGetRootCmd_IndependentInstances verifies each
// call returns independent instance.
func TestGetRootCmd_IndependentInstances(t *testing.T) {
	cmd1 := getRootCmd()
	cmd2 := getRootCmd()
	assert.NotSame(t, cmd1, cmd2)

	cmd1.Version = "version1"
	cmd2.Version = "version2"
	assert.Equal(t, "version1", cmd1.Version)
	assert.Equal(t, "version2", cmd2.Version)
}

// TestGetRootCmd_InvalidCommand verifies error on
// invalid command.
func TestGetRootCmd_InvalidCommand(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"nonexistent-command"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestInitEnvVars(t *testing.T) {
	t.Setenv("GNAOI_DATABASE_HOST", "db.example.org")
	t.Setenv("GNAOI_SELECTION_MAX_TILES", "4")
	t.Setenv("GNAOI_S3_USE_PATH_STYLE", "true")

	home := t.TempDir()
	cmd := getRootCmd()
	require.NotNil(t, cmd)

	// initConfig needs the config file
	require.NoError(t, ensureTestConfig(home))
	res, err := initConfig(home)
	require.NoError(t, err)
	assert.Equal(t, "db.example.org", res.Database.Host)
	assert.Equal(t, 4, res.Selection.MaxTiles)
	assert.True(t, res.S3.UsePathStyle)
	assert.Equal(t, 5432, res.Database.Port, "value from config file")
}

package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	// Setup
	c, _, _ := newTestContainer(t)

	// Execute
	cmd := NewRootCommand(c, "1.2.3")

	// Assert
	assert.Equal(t, "msp2ifc", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"convert", "inspect", "config"})
}

func TestRootCommand_NilContainerShowsHelp(t *testing.T) {
	out, err := execute(t, NewRootCommand(nil, "dev"), "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "Conversion Commands:")
	assert.Contains(t, out, "Setup Commands:")
}

func TestRootCommand_PrintsConfigWarnings(t *testing.T) {
	c, fs, _ := newTestContainer(t)
	require.NoError(t, afero.WriteFile(fs, testLocalPath, []byte("[tasks]\nnest = true\n"), 0o644))

	cmd := NewRootCommand(c, "dev")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"inspect", testInput})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, stderr.String(), "Warning: /work/msp2ifc.toml: unknown key in [tasks]: nest")
}

func TestRootCommand_BrokenConfigFailsConvert(t *testing.T) {
	c, fs, _ := newTestContainer(t)
	require.NoError(t, afero.WriteFile(fs, testLocalPath, []byte("[log]\nlevel = \"loud\"\n"), 0o644))

	_, err := execute(t, NewRootCommand(c, "dev"), "convert", testInput)

	assert.ErrorContains(t, err, "invalid configuration")
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	c, fs, _ := newTestContainer(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/site.toml", []byte("[sequence]\non_unresolved = \"skip\"\n"), 0o644))

	out, err := execute(t, NewRootCommand(c, "dev"), "--config", "/etc/site.toml", "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "- /etc/site.toml\n")
	assert.Contains(t, out, "on_unresolved = 'skip'")
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	c, _, _ := newTestContainer(t)

	_, err := execute(t, NewRootCommand(c, "dev"), "--log-level", "loud", "inspect", testInput)

	assert.ErrorContains(t, err, "invalid --log-level")
}

func TestRootCommand_DebugLogLevel(t *testing.T) {
	c, _, stderr := newTestContainer(t)

	_, err := execute(t, NewRootCommand(c, "dev"), "--log-level", "debug", "convert", testInput, "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "[DEBUG] [convert]")
}

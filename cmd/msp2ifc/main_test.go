package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Version(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	err := run([]string{"--version"}, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "msp2ifc version dev")
}

func TestRun_ConfigInitCreatesLocalFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	err := run([]string{"config", "init"}, &out)

	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "msp2ifc.toml"))
	assert.NoError(t, statErr)
}

func TestRun_UnknownCommand(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := run([]string{"frobnicate"}, &bytes.Buffer{})

	assert.ErrorContains(t, err, "unknown command")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rebind/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3-test")
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rebind version 1.2.3-test")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeBadConfig, getExitCode(&config.ValidationError{Problems: []string{"x"}}))
	assert.Equal(t, ExitCodeError, getExitCode(errors.New("anything else")))
}

func TestCheckCommandValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listeners:
  - name: front
    protocol: tcp
    handler: hello
    host: 127.0.0.1
    port: 2525
    scale: 2
`), 0o644))

	out, err := execute(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration OK")
	assert.Contains(t, out, "front")
	assert.Contains(t, out, "127.0.0.1:2525")
	assert.Contains(t, out, "hello")
}

func TestCheckCommandEmptyConfig(t *testing.T) {
	out, err := execute(t, "check", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "start idle")
}

func TestCheckCommandInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listeners:
  - name: broken
    protocol: carrier-pigeon
    port: 2525
`), 0o644))

	_, err := execute(t, "check", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCodeBadConfig, getExitCode(err))
}

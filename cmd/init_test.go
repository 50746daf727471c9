package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runInitCmd(t *testing.T, args ...string) error {
	t.Helper()

	initForceFlag = false
	initInteractiveFlag = false

	cmd := newInitCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestInitCmd_WritesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	require.NoError(t, runInitCmd(t))

	contents, err := os.ReadFile(filepath.Join(tempDir, configFileName))
	require.NoError(t, err)
	require.NotEmpty(t, contents)

	var cfg initConfig
	require.NoError(t, yaml.Unmarshal(contents, &cfg))
	assert.Equal(t, currentConfigVersion, cfg.Version)
	assert.Equal(t, defaultFormat, cfg.Format)
	assert.Equal(t, defaultMinSeverity, cfg.MinSeverity)
	assert.True(t, cfg.Protocol.FotTokens)
	assert.True(t, cfg.Protocol.NFT)
}

func TestInitCmd_ErrorsWhenFileExists(t *testing.T) {
	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, configFileName), []byte("version: 1\n"), 0o644))

	err = runInitCmd(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tempDir := t.TempDir()
	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(originalWD)) })

	target := filepath.Join(tempDir, configFileName)
	require.NoError(t, os.WriteFile(target, []byte("stale\n"), 0o644))

	require.NoError(t, runInitCmd(t, "--force"))

	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "stale")
	assert.Contains(t, string(contents), "protocol:")
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/titanic/config"
)

func TestInitCmd(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf", "config.yml")

	var buf bytes.Buffer
	cmd := NewInitCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-o", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), path)

	cfg, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	t.Run("refuses to overwrite", func(t *testing.T) {
		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", path})
		assert.ErrorContains(t, cmd.Execute(), "already exists")
	})

	t.Run("overwrites with force", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("target: x\n"), 0600))
		cmd := NewInitCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"-o", path, "-f"})
		require.NoError(t, cmd.Execute())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, config.Template(), data)
	})
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	assert.Equal(t, "titanic", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Version)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	t.Run("has global flags", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("config")
		require.NotNil(t, flag)
		assert.Equal(t, "c", flag.Shorthand)
		assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		uses := map[string]bool{}
		for _, sub := range cmd.Commands() {
			uses[sub.Name()] = true
		}
		for _, name := range []string{"train", "predict", "init", "version"} {
			assert.True(t, uses[name], "missing subcommand %s", name)
		}
	})
}

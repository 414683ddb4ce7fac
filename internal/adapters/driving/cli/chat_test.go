package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "chat" {
			found = true
			break
		}
	}
	assert.True(t, found, "chat command should be registered")
}

func TestChatCmd_Short(t *testing.T) {
	assert.Equal(t, "Chat with the assistant in the terminal", chatCmd.Short)
}

func TestChatCmd_Long(t *testing.T) {
	assert.Contains(t, chatCmd.Long, "Controls:")
	assert.Contains(t, chatCmd.Long, "Ctrl+R")
}

func TestChatCmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"chat", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "interactive terminal chat")
	assert.Contains(t, buf.String(), "Controls:")
}

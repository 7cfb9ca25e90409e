package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_HasSubcommands(t *testing.T) {
	commands := configCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "set")
	assert.Contains(t, commandNames, "get")
	assert.Contains(t, commandNames, "show")
}

func TestConfigSetCmd_StoresValue(t *testing.T) {
	store := setupConfigStore(t)
	silenceConsole(t)

	_, err := executeCommand(t, "config", "set", "atlassian.base_url", "https://example.atlassian.net")

	assert.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", store.GetString("atlassian.base_url"))
}

func TestConfigSetCmd_RequiresValueForPlainKeys(t *testing.T) {
	setupConfigStore(t)

	_, err := executeCommand(t, "config", "set", "atlassian.base_url")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no value given")
}

func TestConfigGetCmd_PrintsValue(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, store.Set("confluence.default_space", "ENG"))

	out, err := executeCommand(t, "config", "get", "confluence.default_space")

	assert.NoError(t, err)
	assert.Contains(t, out, "confluence.default_space = ENG")
}

func TestConfigGetCmd_UnsetKey(t *testing.T) {
	setupConfigStore(t)

	out, err := executeCommand(t, "config", "get", "atlassian.username")

	assert.NoError(t, err)
	assert.Contains(t, out, "is not set")
}

func TestConfigShowCmd_MasksSecrets(t *testing.T) {
	store := setupConfigStore(t)
	require.NoError(t, store.Set("atlassian.api_token", "supersecrettoken"))
	require.NoError(t, store.Set("atlassian.username", "dev@example.com"))

	out, err := executeCommand(t, "config", "show")

	assert.NoError(t, err)
	assert.Contains(t, out, "dev@example.com")
	assert.NotContains(t, out, "supersecrettoken")
	assert.Contains(t, out, "supe...oken")
}

func TestConfigShowCmd_Empty(t *testing.T) {
	setupConfigStore(t)

	out, err := executeCommand(t, "config", "show")

	assert.NoError(t, err)
	assert.Contains(t, out, "No configuration set")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "****", maskSecret(""))
	assert.Equal(t, "abcd...wxyz", maskSecret("abcdefgh-stuvwxyz"))
}

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	config, err := parseConfig("testdata/non-existing.toml")
	require.NoError(t, err)
	require.NotNil(t, config)

	require.Equal(t, "/run/locale-agent/api.socket", config.SocketPath)
	require.Equal(t, "info", config.LogLevel)
	require.Equal(t, "text", config.LogFormat)
}

func TestConfig(t *testing.T) {
	config, err := parseConfig("testdata/agent.toml")
	require.NoError(t, err)
	require.NotNil(t, config)

	require.Equal(t, "/run/locale-agent/test.socket", config.SocketPath)
	require.Equal(t, "debug", config.LogLevel)
	require.Equal(t, "json", config.LogFormat)
}

func TestConfigPartial(t *testing.T) {
	config, err := parseConfig("testdata/partial.toml")
	require.NoError(t, err)
	require.NotNil(t, config)

	require.Equal(t, "/run/locale-agent/api.socket", config.SocketPath)
	require.Equal(t, "warning", config.LogLevel)
	require.Equal(t, "text", config.LogFormat)
}

func TestConfigInvalidFormat(t *testing.T) {
	config, err := parseConfig("testdata/bad-format.toml")
	require.Error(t, err)
	require.Nil(t, config)
}

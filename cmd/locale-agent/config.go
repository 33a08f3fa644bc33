package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

type agentConfig struct {
	SocketPath string `toml:"socket_path"`
	LogLevel   string `toml:"log_level"`
	LogFormat  string `toml:"log_format"`
}

func parseConfig(file string) (*agentConfig, error) {
	// set defaults
	config := agentConfig{
		SocketPath: "/run/locale-agent/api.socket",
		LogLevel:   "info",
		LogFormat:  "text",
	}

	_, err := toml.DecodeFile(file, &config)
	if err != nil {
		// Return error only when we failed to decode the file.
		// A non-existing config isn't an error, use defaults in this case.
		if !os.IsNotExist(err) {
			return nil, err
		}

		logrus.Info("Configuration file not found, using defaults")
	}

	switch config.LogFormat {
	case "text", "json":
		// good and supported
	default:
		return nil, fmt.Errorf("log_format needs to be text or json, got: %s", config.LogFormat)
	}

	return &config, nil
}

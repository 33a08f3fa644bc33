package main

import (
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/coreos/go-systemd/v22/activation"
	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"

	"github.com/hostconf/locale-agent/internal/agentapi"
	"github.com/hostconf/locale-agent/internal/facts"
	"github.com/hostconf/locale-agent/internal/locale"
	"github.com/hostconf/locale-agent/internal/system"
)

const configFile = "/etc/locale-agent/agent.toml"

// apiListener returns the socket the API serves on: the activation
// socket when systemd started us, a freshly bound one otherwise.
func apiListener(socketPath string) (net.Listener, error) {
	listeners, err := activation.Listeners()
	if err != nil {
		return nil, fmt.Errorf("cannot get activation sockets: %v", err)
	}

	switch len(listeners) {
	case 0:
		if err := os.MkdirAll(filepath.Dir(socketPath), 0755); err != nil {
			return nil, err
		}
		// A stale socket from a previous run would fail the bind.
		if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		return net.Listen("unix", socketPath)
	case 1:
		return listeners[0], nil
	default:
		return nil, fmt.Errorf("unexpected number of listening sockets (%d), expected 1", len(listeners))
	}
}

func main() {
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "Print access log")
	flag.Parse()

	config, err := parseConfig(configFile)
	if err != nil {
		logrus.Fatalf("Could not load config file '%s': %v", configFile, err)
	}

	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level '%s': %v", config.LogLevel, err)
	}
	logrus.SetLevel(level)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if config.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if journal.Enabled() {
		// stdout lands in the journal as well, log through the hook
		// only to avoid duplicate entries.
		logrus.AddHook(&JournalHook{})
		logrus.SetOutput(io.Discard)
	}

	hostFacts, err := facts.Detect()
	if err != nil {
		logrus.Fatalf("Could not classify the host: %v", err)
	}

	manager := locale.New(hostFacts, system.New())
	logrus.Infof("Managing locales for %s (%s family) through the %s platform",
		hostFacts.OS, hostFacts.OSFamily, manager.Platform())

	listener, err := apiListener(config.SocketPath)
	if err != nil {
		logrus.Fatalf("Could not listen on %s: %v", config.SocketPath, err)
	}

	api := agentapi.New(manager, hostFacts, logrus.StandardLogger())
	err = api.Serve(listener)
	if err != nil {
		logrus.Fatalf("%v", err)
	}
}

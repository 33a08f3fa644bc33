package main

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hostconf/locale-agent/internal/facts"
	"github.com/hostconf/locale-agent/internal/locale"
	"github.com/hostconf/locale-agent/internal/system"
)

var logLevel string

func newManager() (*locale.Manager, error) {
	hostFacts, err := facts.Detect()
	if err != nil {
		return nil, fmt.Errorf("cannot classify the host: %v", err)
	}

	return locale.New(hostFacts, system.New()), nil
}

var rootCmd = &cobra.Command{
	Use:           "localeadm",
	Long:          "localeadm inspects and changes the locale configuration of this host.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List the locales compiled on this host",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		locales := manager.ListAvail()
		if len(args) == 1 {
			g, err := glob.Compile(args[0])
			if err != nil {
				return fmt.Errorf("pattern %q is invalid: %v", args[0], err)
			}

			matched := make([]string, 0)
			for _, l := range locales {
				if g.Match(l) {
					matched = append(matched, l)
				}
			}
			locales = matched
		}

		for _, l := range locales {
			fmt.Println(l)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the configured system locale",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		l, err := manager.GetLocale()
		if err != nil {
			return err
		}

		fmt.Println(l)
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set LOCALE",
	Short: "Make LOCALE the configured system locale",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		ok, err := manager.SetLocale(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("the system rejected locale %q", args[0])
		}
		return nil
	},
}

var availCmd = &cobra.Command{
	Use:   "avail LOCALE",
	Short: "Check whether LOCALE is compiled on this host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		if !manager.Avail(args[0]) {
			return fmt.Errorf("locale %q is not available", args[0])
		}

		fmt.Printf("locale %q is available\n", args[0])
		return nil
	},
}

var genVerbose bool

var genCmd = &cobra.Command{
	Use:   "gen LOCALE",
	Short: "Compile LOCALE so that it becomes available",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, err := newManager()
		if err != nil {
			return err
		}

		result, ok, err := manager.GenLocale(args[0], genVerbose)
		if err != nil {
			return err
		}
		if result == nil {
			return fmt.Errorf("locale %q is not supported", args[0])
		}

		if genVerbose {
			fmt.Printf("retcode: %d\n", result.Retcode)
			fmt.Printf("stdout:\n%s\n", result.Stdout)
			fmt.Printf("stderr:\n%s\n", result.Stderr)
		}
		if !ok {
			return fmt.Errorf("generating locale %q failed", args[0])
		}
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level: trace, debug, info, warning, error, fatal, panic")
	genCmd.Flags().BoolVar(&genVerbose, "verbose", false, "print the compiler output")
	rootCmd.AddCommand(listCmd, getCmd, setCmd, availCmd, genCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

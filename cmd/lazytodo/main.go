// Package main implements the lazytodo CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Crixpsitos/lazytodo/internal/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lazytodo: %v\n", err)
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:   "lazytodo",
	Short: "Keep a small task list in the terminal, on the web, or from scripts",
	Long: `Keep a small task list.

Without a subcommand, lazytodo opens the terminal UI when stdout is a
terminal and prints the task list otherwise.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var (
	rootConfigPath string
	rootStorePath  string
	rootBackend    string
	rootKey        string
	rootLogLevel   string
	rootLogFormat  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "config file path (default $LAZYTODO_CONFIG or the user config dir)")
	flags.StringVar(&rootStorePath, "store", "", "sqlite database file, or directory for the file backend")
	flags.StringVar(&rootBackend, "backend", "", "storage backend: sqlite, file or memory")
	flags.StringVar(&rootKey, "key", "", "storage key holding the task collection")
	flags.StringVar(&rootLogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&rootLogFormat, "log-format", "", "log format: text, json or logfmt")
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runList(cmd, args)
	}

	app, err := openApp(cmd, withLogFile())
	if err != nil {
		return err
	}
	defer app.Close()

	return tui.Run(app.store, app.logger)
}

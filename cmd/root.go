// Copyright (c) 2025 Cartcheckout
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for cartcheckout.
// It implements subcommands for signing in and out, registering, and viewing
// and checking out carts, plus an interactive browse mode, using the Cobra
// CLI framework with a pterm terminal UI.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cartcheckout/cli/internal/app"
	"cartcheckout/cli/internal/config"
	"cartcheckout/cli/internal/guard"
	"cartcheckout/cli/internal/logging"
	"cartcheckout/cli/internal/xdg"

	"github.com/spf13/cobra"
)

var (
	showVersion   bool
	flagServer    string
	flagTimeout   time.Duration
	flagVerbose   bool
	flagNoPersist bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cartcheckout",
	Short: "Reserve carts from your terminal",
	Long: `cartcheckout is a command-line client for the cart reservation service.
Register or sign in once and the session is remembered in your OS keychain;
then list the available carts and check one out.

Run 'cartcheckout browse' for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion(cmd.OutOrStdout())
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var shown *shownError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagServer, "server", "", "Cart service base URL (default "+config.DefaultServer+")")
	pf.DurationVar(&flagTimeout, "timeout", 0, "Per-request timeout (default 10s)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Log requests and session changes")
	pf.BoolVar(&flagNoPersist, "no-persist", false, "Do not remember the session in the OS keychain")
}

// loadConfig resolves configuration and applies command-line flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = flagServer
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration(flagTimeout)
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	if flagNoPersist {
		cfg.PersistCookies = false
	}
	return cfg, cfg.Validate()
}

// newLogger writes to stderr, or to a JSON log in the XDG state dir when the
// config asks for a log file.
func newLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	if !cfg.LogFile {
		return logging.New(os.Stderr, cfg.SlogLevel(), false), io.NopCloser(nil), nil
	}
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "cartcheckout.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, cfg.SlogLevel(), true), f, nil
}

// openApp builds the client for a command starting at route, mounts it and
// returns a cleanup func.
func openApp(cmd *cobra.Command, start guard.Route, opts ...app.Option) (*app.App, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]app.Option{app.StartAt(start)}, opts...)
	a, err := app.New(cfg, log, opts...)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}

	stop := showLoading(a, "Checking session")
	a.Mount(cmd.Context())
	stop()

	return a, func() {
		a.Close()
		_ = closer.Close()
	}, nil
}

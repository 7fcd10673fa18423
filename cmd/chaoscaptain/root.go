package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chaoscaptain/chaoscaptain"
	"github.com/chaoscaptain/chaoscaptain/internal/config"
)

var (
	verbose    bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chaoscaptain",
	Short: "Capture a thought, answer three questions, ship it to your notes",
	Long: `Chaos Captain turns a quick typed or dictated thought into a tidy note.
It walks you through what, why, when and tags, then sends the result to
Apple Notes, Notion, mail, the clipboard, a file or your calendar.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.chaoscaptain/config.yaml + project .chaoscaptain/config.yaml)")
}

// loadConfig reads the configuration. The project file is looked up from the
// working directory upwards.
func loadConfig() *config.Config {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
		return cfg
	}

	project := ""
	if cwd, err := os.Getwd(); err == nil {
		if root, err := chaoscaptain.FindProjectRoot(cwd); err == nil {
			project = filepath.Join(root, config.DirName, "config.yaml")
		}
	}
	cfg, err := config.LoadFiles(config.GlobalConfigPath(), project)
	if err != nil {
		fatal("Failed to load config", err)
	}
	return cfg
}

// extraOptions are appended to every application built by openApp.
var extraOptions []chaoscaptain.Option

// openApp wires the application from cfg. Preferences live in the default
// location inside the resolved data dir.
func openApp(ctx context.Context, cfg *config.Config) *chaoscaptain.App {
	opts := []chaoscaptain.Option{
		chaoscaptain.WithLogger(slog.Default()),
		chaoscaptain.WithRelayURL(cfg.Relay.URL),
		chaoscaptain.WithSession(cfg.Session.UserID),
		chaoscaptain.WithHandoffSettle(cfg.Export.HandoffSettle),
	}
	app, err := chaoscaptain.New(ctx, cfg.DataDir, append(opts, extraOptions...)...)
	if err != nil {
		fatal("Failed to initialize chaoscaptain", err)
	}
	return app
}

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

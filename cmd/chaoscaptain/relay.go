package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/sqlite"
	"github.com/chaoscaptain/chaoscaptain/pkg/relay"
)

var relayAddr string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Backend relay for Notion, transcription and synced preferences",
}

var relayServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay HTTP server",
	Long: `Run the relay that forwards pages to Notion, transcribes audio with
Whisper and stores each user's connection preference in SQLite.

The OpenAI key is read from openai.api_key, CHAOS_OPENAI_API_KEY or
OPENAI_API_KEY.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		cfg := loadConfig()

		store, err := sqlite.Open(ctx, cfg.Relay.DBPath)
		if err != nil {
			fatal("Failed to open preference database", err)
		}
		defer store.Close()

		opts := []relay.ServerOption{
			relay.WithServerLogger(slog.Default()),
			relay.WithNotionAPI(relay.NewNotionClient(cfg.Notion.BaseURL)),
			relay.WithPreferenceStore(store),
		}
		if cfg.OpenAI.APIKey != "" {
			opts = append(opts, relay.WithTranscriber(relay.NewWhisperClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)))
		} else {
			slog.Warn("no OpenAI API key configured, transcription disabled")
		}

		addr := cfg.Relay.Addr
		if cmd.Flags().Changed("addr") {
			addr = relayAddr
		}
		if err := relay.NewServer(opts...).Serve(ctx, addr); err != nil {
			fatal("Relay stopped", err)
		}
	},
}

func init() {
	relayServeCmd.Flags().StringVar(&relayAddr, "addr", "", "Listen address (default relay.addr)")
	relayCmd.AddCommand(relayServeCmd)
	rootCmd.AddCommand(relayCmd)
}

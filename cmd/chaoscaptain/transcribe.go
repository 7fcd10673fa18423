package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [file]",
	Short: "Transcribe an audio recording to text",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		app := openApp(ctx, loadConfig())

		audio, err := os.ReadFile(args[0])
		if err != nil {
			fatal("Failed to read audio", err)
		}
		text, err := app.Transcribe(ctx, audio)
		if err != nil {
			fatal("Transcription failed", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
	},
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
}

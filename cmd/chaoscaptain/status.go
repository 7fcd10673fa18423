package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	statusJSON  bool
	statusWatch bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connected destination and component state",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		app := openApp(ctx, loadConfig())
		out := cmd.OutOrStdout()

		if statusJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(app.State()); err != nil {
				fatal("Failed to encode state", err)
			}
		} else {
			p := app.Preferences()
			fmt.Fprintf(out, "Data dir:    %s\n", app.DataDir())
			fmt.Fprintf(out, "Connected:   %s\n", p.Get(ctx))
			fmt.Fprintf(out, "Onboarding:  %s\n", onboardingLabel(string(p.OnboardingStatus())))
			fmt.Fprintf(out, "Notion:      %s\n", configuredLabel(p.NotionCredentials().Complete()))
		}

		if !statusWatch {
			return
		}
		src, err := app.WatchPreferences(ctx)
		if err != nil {
			fatal("Failed to watch preferences", err)
		}
		if err := src.Start(ctx); err != nil {
			fatal("Failed to watch preferences", err)
		}
		fmt.Fprintln(os.Stderr, "Watching for changes, Ctrl-C to stop")
		for ev := range src.Events() {
			fmt.Fprintf(out, "Connected:   %s\n", ev)
		}
	},
}

func onboardingLabel(s string) string {
	if s == "" {
		return "pending"
	}
	return s
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output component state as JSON")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Keep running and print preference changes")
	rootCmd.AddCommand(statusCmd)
}

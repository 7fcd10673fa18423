package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/chaoscaptain/chaoscaptain/pkg/adapters/fs"
)

var (
	historyMatch string
	historyTag   string
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List captured notes",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		app := openApp(ctx, loadConfig())

		docs, err := app.History(ctx, historyMatch, historyTag)
		if err != nil {
			fatal("Failed to list notes", err)
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(docs); err != nil {
				fatal("Failed to encode notes", err)
			}
			return
		}

		if len(docs) == 0 {
			fmt.Fprintln(out, "No notes yet")
			return
		}
		now := time.Now()
		for _, doc := range docs {
			when := fs.MetaString(doc.Metadata, "captured_at")
			if t, err := time.Parse(time.RFC3339, when); err == nil {
				when = humanize.RelTime(t, now, "ago", "from now")
			}
			fmt.Fprintf(out, "%s  %-16s  %s", doc.ID, when, fs.MetaString(doc.Metadata, "title"))
			for _, tag := range fs.MetaStrings(doc.Metadata, "tags") {
				fmt.Fprintf(out, " %s", tag)
			}
			fmt.Fprintln(out)
		}
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyMatch, "match", "", "Glob over note paths, e.g. 2026/10/**")
	historyCmd.Flags().StringVar(&historyTag, "tag", "", "Only notes carrying this tag")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(historyCmd)
}

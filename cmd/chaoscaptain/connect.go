package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaoscaptain/chaoscaptain/pkg/core"
)

var (
	connectInstall   bool
	notionAPIKey     string
	notionDatabaseID string
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Choose where notes are sent automatically",
}

var connectNotesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Send notes to Apple Notes through the Shortcuts app",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		app := openApp(ctx, loadConfig())

		if connectInstall {
			if err := app.InstallShortcut(ctx); err != nil {
				fatal("Failed to open the shortcut page", err)
			}
		}
		if err := app.Connect(ctx, core.DestinationAppleNotes); err != nil {
			fatal("Failed to connect Apple Notes", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", core.DestinationAppleNotes.Label())
	},
}

var connectNotionCmd = &cobra.Command{
	Use:   "notion",
	Short: "Send notes to a Notion database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		app := openApp(ctx, loadConfig())

		creds := core.NotionCredentials{APIKey: notionAPIKey, DatabaseID: notionDatabaseID}
		if !cmd.Flags().Changed("api-key") && !cmd.Flags().Changed("database-id") {
			creds = app.Preferences().NotionCredentials()
		}
		if err := app.ConnectNotion(ctx, creds); err != nil {
			fatal("Failed to connect Notion", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", core.DestinationNotion.Label())
	},
}

var disconnectCmd = &cobra.Command{
	Use:       "disconnect [notion]",
	Short:     "Stop sending notes automatically",
	Long:      "Stop sending notes automatically. With \"notion\" the stored Notion credentials are removed too.",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"notion"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()
		app := openApp(ctx, loadConfig())

		forgetNotion := len(args) == 1
		if err := app.Disconnect(ctx, forgetNotion); err != nil {
			fatal("Failed to disconnect", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
	},
}

func init() {
	connectNotesCmd.Flags().BoolVar(&connectInstall, "install", false, "Open the page that installs the shortcut")
	connectNotionCmd.Flags().StringVar(&notionAPIKey, "api-key", "", "Notion integration token")
	connectNotionCmd.Flags().StringVar(&notionDatabaseID, "database-id", "", "Notion database ID")

	connectCmd.AddCommand(connectNotesCmd, connectNotionCmd)
	rootCmd.AddCommand(connectCmd, disconnectCmd)
}

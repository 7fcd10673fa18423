package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chaoscaptain/chaoscaptain"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chaoscaptain",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chaoscaptain version %s\n", strings.TrimSpace(chaoscaptain.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

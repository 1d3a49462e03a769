package main

import (
	"fmt"

	"github.com/aretw0/waypoint"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of waypoint",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "waypoint version %s\n", waypoint.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

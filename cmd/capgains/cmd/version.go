package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the capgains CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("capgains version %s\n", version)
		fmt.Println("A FIFO capital gains tracker for individual investors")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

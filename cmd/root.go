package cmd

import (
	"fmt"
	"log"
	"os"

	"StageFM/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagefm_server",
	Short: "StageFM is a practice-track player service for musicals.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting StageFM server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

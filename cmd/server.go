package cmd

import (
	"StageFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the StageFM server",
	Long:  `Start the StageFM HTTP server serving the musicals catalog, media data and the player WebSocket.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

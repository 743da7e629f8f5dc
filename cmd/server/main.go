package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "eventhub",
	Short: "Event Hub web front-end",
	Long: `Event Hub serves the organiser, staff and attendee web front-end and
signs users in against an OpenID Connect provider.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

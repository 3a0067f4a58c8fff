package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenlabs/studyportal/cmd/adminctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "adminctl",
		Short: "Administrative tools for the study portal",
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.AdvanceCmd())
	rootCmd.AddCommand(cmd.ParticipantsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Package commands implements the careauth command line.
package commands

import (
	"github.com/spf13/cobra"
)

const flagConfig = "config"

// NewRootCommand builds the careauth command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "careauth",
		Short: "Authentication and profile service for pacilians and caregivers",
		Long: `careauth registers pacilians and caregivers, issues JWT access tokens and
serves profile, caregiver directory and consultation history endpoints.

Configuration is read from the file given with --config, or from the
environment (a .env file in the working directory is loaded when present).`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String(flagConfig, "", "Path to an env style configuration file")

	rootCmd.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newHashPasswordCommand(),
		newVerifyTokenCommand(),
	)

	return rootCmd
}

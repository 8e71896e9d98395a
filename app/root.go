// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

// defaultConfigPath is the directory holding main.toml.
const defaultConfigPath = "./etc/"

var rootCmd = &cobra.Command{
	Use:   "go-oidc-bridge",
	Short: "GoOIDC-Bridge signs users in through an OpenID Connect provider",
	Long: `GoOIDC-Bridge signs users in through an OpenID Connect provider,
links them to local accounts and keeps their administrative privileges
in sync with the configured admin and superuser lists.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

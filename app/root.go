// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/opticare/opticare-portal/internal/config"
)

var (
	configPath string // Path to the configuration directory holding main.toml

	cfg config.Config
	err error
)

var rootCmd = &cobra.Command{
	Use:   "opticare-portal",
	Short: "OptiCare portal is the web front end of the OptiCare clinic",
	Long: `OptiCare portal is the web front end of the OptiCare clinic.
It signs patients and staff in against the identity provider, keeps their
sessions and serves the dashboard, specialists and appointment views.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

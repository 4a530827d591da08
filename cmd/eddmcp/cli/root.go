// Package cli builds the eddmcp command tree.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	appVersion string // set in Execute, used by serve for the server info
)

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	appVersion = version
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eddmcp",
		Short: "Expose an Easy Digital Downloads store as MCP tools",
		Long: `eddmcp: Expose an Easy Digital Downloads store as MCP tools for AI agents.

eddmcp connects to your store's REST API and serves products, sales,
customers, discounts, download logs, and stats as read-only Model Context
Protocol tools over stdio or HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./eddmcp.yaml)")

	cobra.OnInitialize(initConfig)

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("eddmcp")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.eddmcp")
	}

	viper.SetEnvPrefix("EDD")
	viper.AutomaticEnv()
	viper.ReadInConfig() // Ignore error - config file is optional
}

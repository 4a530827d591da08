package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eddmcp/eddmcp/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and manage configuration",
	}

	cmd.AddCommand(newConfigCheckCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the current configuration",
		Long: `Check that every required setting is present, reading the environment
and any config file. Reports each setting's status and exits non-zero if
any are missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			for _, st := range config.Describe(v) {
				status := "set"
				if !st.Set {
					status = "MISSING"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s (%s): %s\n", st.Key, st.EnvVar, status)
			}

			_, err := config.Load(v)
			var missing *config.MissingSettingsError
			if errors.As(err, &missing) {
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "configuration OK")
			return nil
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default eddmcp.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "eddmcp.yaml", "Where to write the config file")

	return cmd
}

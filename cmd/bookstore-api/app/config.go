package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaya2m/BookStoreApp-API/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the server configuration",
	}

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if _, err := config.LoadConfig(config.WithConfigPath(path)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", path)
			return err
		},
	}
	validateCmd.Flags().String("config", "", "Path to configuration file (YAML format)")
	_ = validateCmd.MarkFlagRequired("config")

	cmd.AddCommand(validateCmd)
	return cmd
}

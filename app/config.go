package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/UnifiedPortal/UnifiedPortal/internal/config"
)

func init() { //nolint: gochecknoinits
	configDumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON, usable as "+config.EnvConfigJSON)

	configCmd.AddCommand(configDumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	configDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration, environment override applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := config.ReadConfig(configPath)
			if err != nil {
				return err
			}

			return dumpConfig(cmd, &c, dumpJSON)
		},
	}
)

func dumpConfig(cmd *cobra.Command, c *config.Config, asJSON bool) error {
	dump := config.DumpConfig
	if asJSON {
		dump = config.DumpConfigJSON
	}

	out, err := dump(c)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

	return err
}

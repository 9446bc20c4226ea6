package cmd

import (
	"fmt"
	"os"

	"stationboard/pkg/config"
	"stationboard/pkg/tui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stationboard configuration",
	Long:  "Write a starter config, print the effective one, or edit stops and theme interactively.",
	RunE: func(cmd *cobra.Command, args []string) error {
		initFlag, _ := cmd.Flags().GetBool("init")
		showFlag, _ := cmd.Flags().GetBool("show")

		if initFlag {
			return initConfig(cmd)
		}

		if showFlag {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to serialize config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		// If no flags are given, launch the interactive TUI flow
		return tui.RunConfigTUI(cfgPath)
	},
}

func initConfig(cmd *cobra.Command) error {
	path := cfgPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite it", path)
	}

	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote default configuration to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().Bool("init", false, "Write the default configuration file")
	configCmd.Flags().Bool("force", false, "Overwrite an existing file with --init")
	configCmd.Flags().Bool("show", false, "Print the effective configuration as YAML")
}

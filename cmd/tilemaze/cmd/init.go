/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file and the working directories",
	Long: `Create the tilemaze configuration with a freshly generated API key and
make sure the maze, save and data directories exist.

An existing configuration is left alone unless --force is given.

Examples:
  tilemaze init
  tilemaze init --config ./tilemaze.yaml --data-dir ./data --print-keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		cfg := a.cfg
		if config.ConfigExists(a.configPath) && !force {
			a.printf("Configuration already exists at %s. Use --force to recreate it.\n", a.configPath)
		} else {
			created, err := config.BootstrapConfig(a.configPath, cfg.DataDir)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}
			created.MazeDir = cfg.MazeDir
			created.SaveDir = cfg.SaveDir
			created.Logging.Level = cfg.Logging.Level
			if err := config.SaveConfig(created, a.configPath); err != nil {
				return err
			}
			cfg = created
			a.printf("Configuration created at %s\n", a.configPath)
			if printKeys {
				fmt.Fprintf(a.out, "API key: %s\n", cfg.Security.APIKey)
			}
		}

		for _, dir := range []string{cfg.MazeDir, cfg.SaveDir, cfg.DataDir} {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("error creating %s: %w", dir, err)
			}
		}

		a.printf("Maze directory: %s\n", cfg.MazeDir)
		a.printf("Save directory: %s\n", cfg.SaveDir)
		a.printf("Data directory: %s\n", cfg.DataDir)
		if _, err := os.Stat(cfg.DefaultMazePath()); err != nil {
			a.printf("Place a maze definition at %s before starting a new game.\n", cfg.DefaultMazePath())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Bool("force", false, "Recreate the configuration even if it exists")
	initCmd.Flags().Bool("print-keys", false, "Print the generated API key")
}

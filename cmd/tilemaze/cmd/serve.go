/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/api"
	"github.com/ssargent/tilemaze/pkg/config"
)

const autoAPIKey = "auto"

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the TileMaze REST API server. Games live in memory for the life
of the process; saves can be downloaded or kept in the archive.

On first run a configuration file with a generated API key is created.

Examples:
  tilemaze serve
  tilemaze serve --port 9300 --bind 0.0.0.0
  tilemaze serve --api-key mysecretkey --print-keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		printKeys, _ := cmd.Flags().GetBool("print-keys")

		cfg := a.cfg
		if !config.ConfigExists(a.configPath) {
			a.printf("First run detected. Bootstrapping TileMaze...\n")
			created, err := config.BootstrapConfig(a.configPath, cfg.DataDir)
			if err != nil {
				return fmt.Errorf("error bootstrapping config: %w", err)
			}
			cfg.Security.APIKey = created.Security.APIKey
			a.printf("Configuration created at %s\n", a.configPath)
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if cfg.Security.APIKey == "" || cfg.Security.APIKey == autoAPIKey {
			key, err := config.GenerateSecureKey(32)
			if err != nil {
				return err
			}
			cfg.Security.APIKey = key
			printKeys = true
		}
		if printKeys {
			fmt.Fprintf(a.out, "API key: %s\n", cfg.Security.APIKey)
		}

		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}
		archive, err := container.GetArchiveOpener()(cfg.ArchiveDir())
		if err != nil {
			return fmt.Errorf("failed to open archive: %w", err)
		}
		defer archive.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a.printf("Starting TileMaze server on %s:%d\n", cfg.Bind, cfg.Port)
		a.printf("Maze definition: %s\n", cfg.DefaultMazePath())
		a.printf("Data directory: %s\n", cfg.DataDir)

		starter := container.GetServerFactory().CreateServerStarter()
		return starter.StartServer(ctx, api.Dependencies{
			Definitions: a.files,
			Archive:     archive,
			Logger:      a.logger,
		}, api.ServerConfig{
			Port:        cfg.Port,
			Bind:        cfg.Bind,
			APIKey:      cfg.Security.APIKey,
			ShuffleSeed: cfg.Game.ShuffleSeed,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 9200, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key for client authentication (default from config)")
	serveCmd.Flags().Bool("print-keys", false, "Print the API key in use")
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/config"
	"github.com/ssargent/tilemaze/pkg/di"
	"github.com/ssargent/tilemaze/pkg/store"
)

var container *di.Container

// SetContainer injects the dependency container
func SetContainer(c *di.Container) {
	container = c
}

type appKey struct{}

// app is the per-invocation state shared by every command
type app struct {
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	files      *store.FileStore
	format     string
	quiet      bool
	yes        bool
	in         io.Reader
	out        io.Writer
}

// appFrom returns the state prepared by the root command
func appFrom(cmd *cobra.Command) (*app, error) {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		return nil, fmt.Errorf("application state not initialized")
	}
	return a, nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tilemaze",
	Short: "TileMaze - sliding and rotating tile puzzle",
	Long: `TileMaze plays the tile maze puzzle from the command line and serves it
over HTTP. Puzzles and saved games are stored in the .mze binary format.

Examples:
  tilemaze new mygame
  tilemaze move mygame 3 19
  tilemaze inspect input/default.mze
  tilemaze serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, a))
		return nil
	},
}

func newApp(cmd *cobra.Command) (*app, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if config.ConfigExists(configPath) {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	// Flags win over file and environment
	overrides := map[string]*string{
		"maze-dir":  &cfg.MazeDir,
		"save-dir":  &cfg.SaveDir,
		"data-dir":  &cfg.DataDir,
		"log-level": &cfg.Logging.Level,
	}
	for name, field := range overrides {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}

	logger := cfg.Logging.NewLogger(cmd.ErrOrStderr())

	files, err := store.NewFileStore(store.FileStoreConfig{
		Dir:         cfg.SaveDir,
		MazeDir:     cfg.MazeDir,
		DefaultMaze: cfg.DefaultMaze,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open save directory: %w", err)
	}
	if recovery, err := files.Recover(); err != nil {
		return nil, fmt.Errorf("failed to recover save directory: %w", err)
	} else if recovery.TempFilesRemoved > 0 {
		logger.Warn("cleaned up interrupted saves", "count", recovery.TempFilesRemoved)
	}

	format, _ := flags.GetString("format")
	quiet, _ := flags.GetBool("quiet")
	yes, _ := flags.GetBool("yes")

	return &app{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		files:      files,
		format:     format,
		quiet:      quiet,
		yes:        yes,
		in:         cmd.InOrStdin(),
		out:        cmd.OutOrStdout(),
	}, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/tilemaze/config.yaml)")
	rootCmd.PersistentFlags().String("maze-dir", "input", "Directory holding maze definitions")
	rootCmd.PersistentFlags().String("save-dir", "saves", "Directory saved games are written to")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the save archive")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("format", "o", "table", "Output format (table or json)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential messages")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Assume 'yes' for prompts")
}

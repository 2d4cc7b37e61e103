package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TILEMAZE_"

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config fields from TILEMAZE_* environment variables
func ApplyEnv(config *Config) error {
	return applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"MAZE_DIR":     &config.MazeDir,
		"DEFAULT_MAZE": &config.DefaultMaze,
		"SAVE_DIR":     &config.SaveDir,
		"DATA_DIR":     &config.DataDir,
		"BIND":         &config.Bind,
		"API_KEY":      &config.Security.APIKey,
		"LOG_LEVEL":    &config.Logging.Level,
	}
	for name, field := range strs {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup(EnvPrefix + "PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid %sPORT %q", EnvPrefix, v)
		}
		config.Port = port
	}

	if v, ok := lookup(EnvPrefix + "SHUFFLE_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSHUFFLE_SEED %q: %w", EnvPrefix, v, err)
		}
		config.Game.ShuffleSeed = seed
	}

	return nil
}

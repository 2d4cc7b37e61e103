package cmd

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/puzzle"
)

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Shuffle the default maze into a new saved game",
	Long: `Load the default maze definition, deal every piece into the rack in a
random order and rotation, and write the result as a saved game.

Examples:
  tilemaze new
  tilemaze new mygame --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		name := "game"
		if len(args) > 0 {
			name = args[0]
		}
		seed := a.cfg.Game.ShuffleSeed
		if cmd.Flags().Changed("seed") {
			seed, _ = cmd.Flags().GetInt64("seed")
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}

		doc, err := a.files.LoadDefault()
		if err != nil {
			return err
		}
		game, err := puzzle.NewGame(doc)
		if err != nil {
			return err
		}
		game.Shuffle(rand.New(rand.NewSource(seed))) //nolint:gosec

		path, err := a.files.Save(name, game, a.confirmOverwrite())
		if err != nil {
			return err
		}
		if err := a.files.SaveResetPoint(name, game); err != nil {
			return err
		}
		a.logger.Debug("new game", "path", path, "seed", seed)

		a.printf("New game saved to %s\n", path)
		return a.outputGame(path, game)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().Int64("seed", 0, "Shuffle seed (default from config, or the clock)")
}

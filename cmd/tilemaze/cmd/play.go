package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/puzzle"
	"github.com/ssargent/tilemaze/pkg/store"
)

// playSave loads a saved game, applies op and writes it back in place
func playSave(cmd *cobra.Command, name string, op func(g *puzzle.Game) error) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	doc, err := a.files.LoadSave(name)
	if err != nil {
		return err
	}
	game, err := puzzle.FromSave(doc)
	if err != nil {
		return err
	}

	wasSolved := game.Solved()
	if err := op(game); err != nil {
		return err
	}

	path, err := a.files.Save(name, game, store.AlwaysOverwrite)
	if err != nil {
		return err
	}
	game.MarkSaved()

	if game.Solved() && !wasSolved {
		a.logger.Info("puzzle solved", "path", path, "elapsed_ms", game.Clock().Millis())
	}
	return a.outputGame(path, game)
}

// parseIndex parses a piece or slot number. Values outside int32 are
// rejected rather than narrowed.
func parseIndex(arg, what string) (int32, error) {
	v, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, arg, err)
	}
	return int32(v), nil
}

var moveCmd = &cobra.Command{
	Use:   "move <save> <piece> <slot>",
	Short: "Move a piece into an empty slot",
	Long: `Move a piece of a saved game into an empty slot and save the game.

Slots 0..n-1 are the rack and n..2n-1 are the board, where n is the
number of pieces. Piece i belongs on slot n+i.

Examples:
  tilemaze move mygame 3 19`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		piece, err := parseIndex(args[1], "piece")
		if err != nil {
			return err
		}
		slot, err := parseIndex(args[2], "slot")
		if err != nil {
			return err
		}
		return playSave(cmd, args[0], func(g *puzzle.Game) error {
			return g.Move(int(piece), slot)
		})
	},
}

var rotateCmd = &cobra.Command{
	Use:   "rotate <save> <piece>",
	Short: "Turn a piece a quarter turn clockwise",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		piece, err := parseIndex(args[1], "piece")
		if err != nil {
			return err
		}
		turns, _ := cmd.Flags().GetInt("turns")
		if turns < 1 {
			return fmt.Errorf("--turns must be at least 1")
		}
		return playSave(cmd, args[0], func(g *puzzle.Game) error {
			for i := 0; i < turns; i++ {
				if err := g.Rotate(int(piece)); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <save>",
	Short: "Put every piece back where it was dealt",
	Long: `Return every piece of a saved game to the layout it was dealt with by
'new' or restored with 'archive get'. Play time is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return playSave(cmd, args[0], func(g *puzzle.Game) error {
			home, err := a.files.LoadResetPoint(args[0])
			if err != nil {
				return err
			}
			if err := g.SetResetLayout(home); err != nil {
				return err
			}
			g.Reset()
			return nil
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <save>",
	Short: "Print the board and rack of a saved game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		doc, err := a.files.LoadSave(args[0])
		if err != nil {
			return err
		}
		game, err := puzzle.FromSave(doc)
		if err != nil {
			return err
		}
		path, _ := a.files.Resolve(args[0])
		return a.outputGame(path, game)
	},
}

func init() {
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(showCmd)

	rotateCmd.Flags().Int("turns", 1, "Number of quarter turns")
}

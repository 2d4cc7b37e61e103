package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/codec"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show what a .mze file contains",
	Long: `Classify a .mze file by its magic number and, when it can be decoded,
print the piece count, segment count and elapsed time.

Bare names are looked up in the save directory; paths are used as given.

Examples:
  tilemaze inspect input/default.mze
  tilemaze inspect mygame --pieces -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		withPieces, _ := cmd.Flags().GetBool("pieces")

		path, err := a.files.Resolve(args[0])
		if err != nil {
			return err
		}

		status := a.files.Classify(args[0])
		if _, ok := status.Kind(); !ok {
			if err := a.outputSummary(summarize(path, status, nil, nil, false)); err != nil {
				return err
			}
			if status == codec.StatusNotFound {
				return codec.ErrNotFound
			}
			return codec.ErrUnknownFormat
		}

		doc, err := a.files.Load(args[0])
		if err != nil && !isDecodeError(err) {
			return err
		}
		if err := a.outputSummary(summarize(path, status, doc, err, withPieces)); err != nil {
			return err
		}
		return err
	},
}

// isDecodeError reports whether err describes the file content rather
// than a failure to read it
func isDecodeError(err error) bool {
	return errors.Is(err, codec.ErrTruncated) ||
		errors.Is(err, codec.ErrMalformed) ||
		errors.Is(err, codec.ErrUnknownFormat)
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Bool("pieces", false, "List every piece with its slot and rotation")
}

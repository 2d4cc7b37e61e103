package cmd

import (
	"bytes"
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
	"github.com/ssargent/tilemaze/pkg/codec"
	"github.com/ssargent/tilemaze/pkg/puzzle"
	"github.com/ssargent/tilemaze/pkg/storage"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Keep snapshots of saved games in the archive database",
	Long: `The archive is a pebble database under the data directory holding
encoded saves keyed by time-ordered ids. It is shared with the server.

Examples:
  tilemaze archive put mygame
  tilemaze archive list
  tilemaze archive get 2Zd3... restored`,
}

// withArchive opens the archive for the duration of fn
func withArchive(cmd *cobra.Command, fn func(a *app, archive *storage.Archive) error) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	archive, err := container.GetArchiveOpener()(a.cfg.ArchiveDir())
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if err := archive.Close(); err != nil {
			a.logger.Warn("failed to close archive", "error", err)
		}
	}()

	return fn(a, archive)
}

var archivePutCmd = &cobra.Command{
	Use:   "put <save>",
	Short: "Archive a saved game",
	Long: `Archive a saved game under a new id, or overwrite an existing
archived game with --replace.

Examples:
  tilemaze archive put mygame
  tilemaze archive put mygame --replace 2Zd3...`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(a *app, archive *storage.Archive) error {
			doc, err := a.files.LoadSave(args[0])
			if err != nil {
				return err
			}
			data, err := codec.NewMazeCodec().Encode(doc.Pieces, doc.ElapsedMillis)
			if err != nil {
				return err
			}
			id, err := putOrReplace(cmd, archive, data)
			if err != nil {
				return err
			}
			if a.jsonOutput() {
				return writeJSON(a.out, map[string]interface{}{"id": id.String(), "size": len(data)})
			}
			fmt.Fprintln(a.out, id.String())
			return nil
		})
	},
}

// putOrReplace stores data under a new id, or over the id given with
// --replace
func putOrReplace(cmd *cobra.Command, archive *storage.Archive, data []byte) (ksuid.KSUID, error) {
	if !cmd.Flags().Changed("replace") {
		return archive.Put(data)
	}
	raw, _ := cmd.Flags().GetString("replace")
	id, err := storage.ParseID(raw)
	if err != nil {
		return ksuid.Nil, err
	}
	if err := archive.Replace(id, data); err != nil {
		return ksuid.Nil, err
	}
	return id, nil
}

var archiveGetCmd = &cobra.Command{
	Use:   "get <id> [save]",
	Short: "Restore an archived game into the save directory",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(a *app, archive *storage.Archive) error {
			id, err := storage.ParseID(args[0])
			if err != nil {
				return err
			}
			data, err := archive.Get(id)
			if err != nil {
				return err
			}
			doc, err := codec.NewMazeCodec().Decode(bytes.NewReader(data))
			if err != nil {
				return err
			}
			game, err := puzzle.FromSave(doc)
			if err != nil {
				return err
			}

			name := id.String()
			if len(args) > 1 {
				name = args[1]
			}
			path, err := a.files.Save(name, game, a.confirmOverwrite())
			if err != nil {
				return err
			}
			if err := a.files.SaveResetPoint(name, game); err != nil {
				return err
			}
			a.printf("Restored %s to %s\n", id, path)
			return nil
		})
	},
}

var archiveListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List archived games, oldest first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(a *app, archive *storage.Archive) error {
			entries, err := archive.List()
			if err != nil {
				return err
			}
			return a.outputArchive(entries)
		})
	},
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a game from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withArchive(cmd, func(a *app, archive *storage.Archive) error {
			id, err := storage.ParseID(args[0])
			if err != nil {
				return err
			}
			if !a.confirm(fmt.Sprintf("Delete archived game %s?", id)) {
				a.printf("Aborted\n")
				return nil
			}
			if err := archive.Delete(id); err != nil {
				return err
			}
			a.printf("Deleted %s\n", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archivePutCmd)
	archiveCmd.AddCommand(archiveGetCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)

	archivePutCmd.Flags().String("replace", "", "Overwrite the archived game with this id")
}

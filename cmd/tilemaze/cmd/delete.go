/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <save>",
	Short: "Delete a saved game",
	Long: `Delete a saved game from the save directory.

Examples:
  tilemaze delete mygame
  tilemaze delete mygame --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		path, err := a.files.Resolve(args[0])
		if err != nil {
			return err
		}
		if !a.confirm(fmt.Sprintf("Delete %s?", path)) {
			a.printf("Aborted\n")
			return nil
		}
		if err := a.files.Delete(args[0]); err != nil {
			return err
		}
		a.printf("Deleted %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the .mze files in the save directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		entries, err := a.files.List()
		if err != nil {
			return err
		}
		return a.outputEntries(entries)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/gush-shell/gush/core/history"
)

var historyLines int

// historyCmd dumps the saved command history without starting a shell.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show saved command history.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		logger := log.New(cmd.ErrOrStderr(), "", 0)
		configuration, err := loadConfig(logger)
		if err != nil {
			return err
		}

		store, err := history.Open(configuration.HistoryPath())
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Tail(historyLines)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(cmd.OutOrStdout(), "% 5d  [%3d]  %s\n", e.ID, e.ExitCode, e.Line)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLines, "lines", "n", 0, "number of entries to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
}

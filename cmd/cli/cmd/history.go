package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/angelospk/unpacksort/internal/constants"
	"github.com/angelospk/unpacksort/pkg/core/journal"
)

var historyCount int

// historyCmd prints the processed-directory journal, newest last.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently processed directories and their outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := ConfigDir()
		if err != nil {
			return err
		}

		logger := logrus.New()
		jnl, err := journal.Open(filepath.Join(configDir, constants.JournalFileName), logger)
		if err != nil {
			return err
		}

		entries := jnl.Recent(historyCount)
		if len(entries) == 0 {
			fmt.Println("No history yet.")
			return nil
		}
		for _, entry := range entries {
			line := fmt.Sprintf("%s  %-16s %-6s %s",
				entry.FinishedAt.Local().Format("2006-01-02 15:04"),
				entry.Outcome, entry.Kind, entry.Dir)
			if entry.Hint != "" {
				line += fmt.Sprintf("  (%s)", entry.Hint)
			}
			if entry.Error != "" {
				line += fmt.Sprintf("  error: %s", entry.Error)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyCount, "count", "n", 20, "number of entries to show (0 for all)")
}

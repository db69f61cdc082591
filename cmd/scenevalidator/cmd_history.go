package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenevalidator/internal/store"
)

var historyLimit int

// historyCmd lists recent validation runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent validation runs",
	Long: `Lists the most recent validation runs recorded in the history
database. Requires history to be enabled in the config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.History.Enabled {
			return fmt.Errorf("history is disabled; enable it in the config file (history.enabled: true)")
		}
		h, err := store.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer h.Close()

		runs, err := h.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No recorded runs.")
			return nil
		}

		fmt.Printf("%-20s %-24s %-6s %-7s %-9s %s\n", "WHEN", "SCENE", "VALID", "ERRORS", "WARNINGS", "SOURCE")
		for _, r := range runs {
			valid := "no"
			if r.Valid {
				valid = "yes"
			}
			name := r.SceneName
			if r.SceneNumber != "" {
				name = fmt.Sprintf("%s (%s)", r.SceneName, r.SceneNumber)
			}
			fmt.Printf("%-20s %-24s %-6s %-7d %-9d %s\n",
				r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				name, valid, r.Errors, r.Warnings, r.Source)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to list")
}

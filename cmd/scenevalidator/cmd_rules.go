package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"scenevalidator/internal/rules"
)

// rulesCmd prints the effective rule set
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective (merged) rule set",
	Long: `Prints the rule set that validation would use, after merging the
rules file (if any) over the compiled-in defaults. Useful for checking what
a partial rules file actually changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := rules.Load(cfg.Rules.Path)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render rules: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

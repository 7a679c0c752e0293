package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/derivacheck/internal/diagnosis"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the differentiation rules hints are drawn from",
	RunE: func(cmd *cobra.Command, args []string) error {
		group, _ := cmd.Flags().GetString("group")
		asJSON, _ := cmd.Flags().GetBool("json")

		if group != "" {
			rules := diagnosis.RulesByGroup(diagnosis.Group(group))
			if len(rules) == 0 {
				return fmt.Errorf("no rules found for group %q", group)
			}
			if asJSON {
				return writeJSON(cmd, rules)
			}
			for _, r := range rules {
				fmt.Fprintf(cmd.OutOrStdout(), "%-26s  %s\n%-26s  %s\n", r.ID, r.Title, "", r.Text)
			}
			return nil
		}

		if asJSON {
			return writeJSON(cmd, diagnosis.AllRules())
		}
		fmt.Fprint(cmd.OutOrStdout(), newRenderer(cmd).Rules())
		return nil
	},
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rulesCmd.Flags().String("group", "", "Only list one group (e.g. trigonometric, implicit)")
	rulesCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}

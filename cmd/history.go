package cmd

import (
	"fmt"

	"github.com/abhisek/derivacheck/internal/history"
	"github.com/abhisek/derivacheck/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded checks",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		mode, _ := cmd.Flags().GetString("mode")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.Events().QueryChecks(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query checks: %w", err)
		}
		if mode != "" {
			kept := recs[:0]
			for _, r := range recs {
				if r.Mode == mode {
					kept = append(kept, r)
				}
			}
			recs = kept
		}
		fmt.Fprint(cmd.OutOrStdout(), newRenderer(cmd).History(recs))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the report of a recorded check by ID or check ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.Events().GetCheck(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get check: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("check %q not found", args[0])
		}
		if asJSON {
			_, err := cmd.OutOrStdout().Write(append(rec.Report, '\n'))
			return err
		}

		rep, err := history.Decode(rec)
		if err != nil {
			return err
		}
		r := newRenderer(cmd)
		fmt.Fprintf(cmd.OutOrStdout(), "Check %d (%s) at %s\n\n",
			rec.ID, rec.CheckID, rec.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintln(cmd.OutOrStdout(), r.Card(r.Report(rep)))
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the most recent checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return fmt.Errorf("--keep must not be negative")
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.Events().PruneChecks(cmd.Context(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d checks, kept the latest %d.\n", n, keep)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 10, "Number of checks to show")
	historyListCmd.Flags().StringP("mode", "m", "", "Only show checks of one mode")
	historyShowCmd.Flags().Bool("json", false, "Print the stored report as JSON")
	historyPruneCmd.Flags().Int("keep", 10, "Number of recent checks to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent group updates",
	Long: `Lists the group updates recorded in the local journal, newest first.
Each entry shows whether the read-back verification passed. The classifier
is not contacted.`,
	Annotations: map[string]string{scopeAnnotation: scopeLocal},
	Args:        cobra.NoArgs,
	RunE:        runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNotConfigured("history")
	}

	entries, err := historyService.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No updates recorded.")
		return nil
	}

	for _, e := range entries {
		status := successStyle.Render("verified")
		if !e.Verified {
			status = errorStyle.Render("failed: " + e.Error)
		}
		cmd.Printf("%s  %s  %s\n",
			mutedStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
			keyStyle.Render(e.Group),
			status,
		)
		cmd.Printf("    classes: %s\n", e.Classes)
		if e.Rule != "" && e.Rule != "null" {
			cmd.Printf("    rule:    %s\n", e.Rule)
		}
	}
	return nil
}

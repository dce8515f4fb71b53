package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show [group-name]",
	Short: "Show a group as the classifier stores it",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output the group as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if groupService == nil {
		return errNotConfigured("group")
	}

	group, err := groupService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("show failed: %w", err)
	}

	if showJSON {
		data, err := json.MarshalIndent(group, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal group: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printGroup(cmd, group)
	return nil
}

func printGroup(cmd *cobra.Command, group *domain.Group) {
	cmd.Println(titleStyle.Render("Group " + group.Name))
	cmd.Printf("  %s %s\n", keyStyle.Render("id:         "), group.ID)
	cmd.Printf("  %s %s\n", keyStyle.Render("parent:     "), group.Parent)
	cmd.Printf("  %s %s\n", keyStyle.Render("environment:"), group.Environment)
	rule := mutedStyle.Render("(none)")
	if !group.Rule.Empty() {
		rule = group.Rule.String()
	}
	cmd.Printf("  %s %s\n", keyStyle.Render("rule:       "), rule)
	cmd.Println()

	cmd.Println(titleStyle.Render("Classes"))
	if len(group.Classes) == 0 {
		cmd.Println("  " + mutedStyle.Render("(none)"))
		return
	}
	for _, name := range group.Classes.Names() {
		class := group.Classes[name]
		cmd.Println("  " + keyStyle.Render(name))
		for _, param := range class.ParamNames() {
			cmd.Printf("    %s = %s\n", param, renderValue(class.Params[param].Value))
		}
	}
}

func renderValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

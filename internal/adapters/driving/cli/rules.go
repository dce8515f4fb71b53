package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

var (
	rulesGroup       string
	rulesConjunction string
	rulesPredicates  []string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Ensure rule predicates on a group",
	Long: `Ensures each predicate given with --rule is part of the group's rule.
With --conjunction the whole rule is switched to that conjunction; without
it the group keeps its current one, or "or" for a group with no rule yet.
Predicates are JSON lists of
[operator, field, value], for example:

  ncedit rules --group-name web --rule '["=", "name", "web01.example.com"]'
  ncedit rules --group-name rhel --conjunction and \
      --rule '["=", ["fact", "os", "family"], "RedHat"]'

Existing predicates are never removed.`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	flags := rulesCmd.Flags()
	flags.StringVar(&rulesGroup, "group-name", "", "group to edit")
	flags.StringVar(&rulesConjunction, "conjunction", "", "rule conjunction, and or or (default keeps the group's)")
	flags.StringArrayVar(&rulesPredicates, "rule", nil, "predicate as a JSON list (repeatable)")
	_ = rulesCmd.MarkFlagRequired("group-name")
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	if groupService == nil {
		return errNotConfigured("group")
	}

	conjunction := domain.KeepConjunction
	if cmd.Flags().Changed("conjunction") {
		parsed, err := domain.ParseConjunction(rulesConjunction)
		if err != nil {
			return err
		}
		conjunction = parsed
	}
	predicates, err := parsePredicates(rulesPredicates)
	if err != nil {
		return err
	}

	desired := domain.DesiredState{AppendRules: domain.NewRuleTree(conjunction, predicates...)}
	result, err := groupService.Reconcile(cmd.Context(), rulesGroup, desired)
	if err != nil {
		return fmt.Errorf("rules failed: %w", err)
	}
	cmd.Println(changeStatus(result.Changed))
	return nil
}

func parsePredicates(raw []string) ([]domain.Predicate, error) {
	predicates := make([]domain.Predicate, 0, len(raw))
	for _, r := range raw {
		var p domain.Predicate
		if err := json.Unmarshal([]byte(r), &p); err != nil {
			return nil, fmt.Errorf("%w: rule %s is not a JSON list: %v", domain.ErrInvalidArgument, r, err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		predicates = append(predicates, p)
	}
	return predicates, nil
}

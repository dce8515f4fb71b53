package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/logger"
	"github.com/custodia-labs/ncedit/internal/rules"
)

var (
	matchNode    string
	matchFacts   []string
	matchTrusted []string
)

var matchCmd = &cobra.Command{
	Use:   "match [group-name]",
	Short: "Check whether a node would join a group",
	Long: `Evaluates the group's rule against the node name and facts given on
the command line. Dotted fact names address structured facts:

  ncedit match rhel --node web01 --fact os.family=RedHat --fact processorcount=4`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	flags := matchCmd.Flags()
	flags.StringVar(&matchNode, "node", "", "node certname")
	flags.StringArrayVar(&matchFacts, "fact", nil, "fact as name=value (repeatable)")
	flags.StringArrayVar(&matchTrusted, "trusted", nil, "trusted fact as name=value (repeatable)")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if groupService == nil {
		return errNotConfigured("group")
	}

	facts, err := parseFacts(matchFacts)
	if err != nil {
		return err
	}
	trusted, err := parseFacts(matchTrusted)
	if err != nil {
		return err
	}

	group, err := groupService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	matcher, err := rules.Compile(group.Rule)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}
	logger.Debug("Rule %s compiled to %s", group.Rule, matcher.Source())

	matched, err := matcher.Match(rules.Node{Name: matchNode, Facts: facts, Trusted: trusted})
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	node := matchNode
	if node == "" {
		node = "node"
	}
	if matched {
		cmd.Printf("%s %s group %s\n", node, successStyle.Render("matches"), group.Name)
	} else {
		cmd.Printf("%s %s group %s\n", node, warningStyle.Render("does not match"), group.Name)
	}
	return nil
}

// parseFacts turns name=value pairs into a fact map. Dotted names nest.
func parseFacts(pairs []string) (map[string]any, error) {
	facts := make(map[string]any)
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: fact %q must be name=value", domain.ErrInvalidArgument, pair)
		}

		parts := strings.Split(name, ".")
		node := facts
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return facts, nil
}

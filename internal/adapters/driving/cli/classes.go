package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

var (
	classesGroup       string
	classesClass       string
	classesParam       string
	classesValue       string
	classesDeleteClass bool
	classesDeleteParam bool
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Ensure a class and parameter on a group",
	Long: `Ensures a class is present on a group, optionally with one parameter
set to a value. With --delete-class the class is removed instead; with
--delete-param only the named parameter is removed.

The group is created under the root group if it does not exist.`,
	Args: cobra.NoArgs,
	RunE: runClasses,
}

func init() {
	flags := classesCmd.Flags()
	flags.StringVar(&classesGroup, "group-name", "", "group to edit")
	flags.StringVar(&classesClass, "class-name", "", "class to ensure or delete")
	flags.StringVar(&classesParam, "param-name", "", "parameter to ensure or delete")
	flags.StringVar(&classesValue, "param-value", "", "value of the parameter")
	flags.BoolVar(&classesDeleteClass, "delete-class", false, "remove the class")
	flags.BoolVar(&classesDeleteParam, "delete-param", false, "remove the parameter")
	_ = classesCmd.MarkFlagRequired("group-name")
	_ = classesCmd.MarkFlagRequired("class-name")
	classesCmd.MarkFlagsMutuallyExclusive("delete-class", "delete-param")
	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, _ []string) error {
	if groupService == nil {
		return errNotConfigured("group")
	}

	desired, err := classesDesiredState()
	if err != nil {
		return err
	}

	result, err := groupService.Reconcile(cmd.Context(), classesGroup, desired)
	if err != nil {
		return fmt.Errorf("classes failed: %w", err)
	}
	cmd.Println(changeStatus(result.Changed))
	return nil
}

// classesDesiredState translates the flags into a desired state.
func classesDesiredState() (domain.DesiredState, error) {
	if classesDeleteClass {
		return domain.DesiredState{DeleteClasses: []string{classesClass}}, nil
	}

	desired := domain.DesiredState{
		Classes: map[string]map[string]any{classesClass: {}},
	}
	switch {
	case classesDeleteParam:
		if classesParam == "" {
			return domain.DesiredState{}, errors.New("--delete-param requires --param-name")
		}
		desired.DeleteParams = map[string][]string{classesClass: {classesParam}}
	case classesParam != "":
		desired.Classes[classesClass][classesParam] = classesValue
	}
	return desired, nil
}

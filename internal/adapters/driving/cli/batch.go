package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ncedit/internal/core/domain"
)

var (
	batchYAMLFile string
	batchJSONFile string
	batchFailFast bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Reconcile every group in a desired-state file",
	Long: `Reads a YAML or JSON file mapping group names to desired states and
reconciles each group in name order. Each group may carry classes,
delete_classes, delete_params and append_rules sections.

A failed group is reported and the remaining groups still run, unless
--fail-fast is given or batch.fail_fast is set in the config file.`,
	Args: cobra.NoArgs,
	RunE: runBatch,
}

func init() {
	flags := batchCmd.Flags()
	flags.StringVar(&batchYAMLFile, "yaml-file", "", "desired state as YAML")
	flags.StringVar(&batchJSONFile, "json-file", "", "desired state as JSON (comments allowed)")
	flags.BoolVar(&batchFailFast, "fail-fast", false, "stop at the first failed group")
	batchCmd.MarkFlagsMutuallyExclusive("yaml-file", "json-file")
	batchCmd.MarkFlagsOneRequired("yaml-file", "json-file")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	if batchService == nil {
		return errNotConfigured("batch")
	}

	path, format := batchYAMLFile, domain.FormatYAML
	if batchJSONFile != "" {
		path, format = batchJSONFile, domain.FormatJSON
	}
	opts := domain.BatchOptions{
		Format:   format,
		FailFast: settings.FailFast,
	}
	if cmd.Flags().Changed("fail-fast") {
		opts.FailFast = batchFailFast
	}

	report, err := batchService.Run(cmd.Context(), path, opts)
	if report == nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	for _, o := range report.Outcomes {
		status := changeStatus(o.Changed)
		if o.Err != nil {
			status = errorStyle.Render("failed: " + o.Err.Error())
		}
		cmd.Printf("%s: %s\n", keyStyle.Render(o.Group), status)
	}

	if failed := len(report.Failed()); failed > 0 {
		return fmt.Errorf("%d of %d groups failed: %w", failed, len(report.Outcomes), err)
	}
	if err != nil {
		return errors.Join(errors.New("batch interrupted"), err)
	}
	cmd.Printf("%d groups, %d changed\n", len(report.Outcomes), report.Changed())
	return nil
}

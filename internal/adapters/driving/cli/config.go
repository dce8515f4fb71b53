package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var localOnly = map[string]string{scopeAnnotation: scopeLocal}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change stored settings",
	Long: `Shows the settings kept in the config file. Flags given on the
command line still override these values for a single run.`,
	Annotations: localOnly,
	Args:        cobra.NoArgs,
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show every setting",
	Annotations: localOnly,
	Args:        cobra.NoArgs,
	RunE:        runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:         "get <key>",
	Short:       "Print one setting",
	Annotations: localOnly,
	Args:        cobra.ExactArgs(1),
	RunE:        runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store one setting",
	Long: `Stores a setting in the config file, for example:

  ncedit config set classifier.host puppet.example.com
  ncedit config set classifier.wait_seconds 0
  ncedit config set batch.fail_fast true`,
	Annotations: localOnly,
	Args:        cobra.ExactArgs(2),
	RunE:        runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configService == nil {
		return errNotConfigured("config")
	}

	cmd.Println(titleStyle.Render("Settings") + " " + mutedStyle.Render(configService.Path()))
	for _, k := range configService.Keys() {
		value, ok, err := configService.Get(k.Name)
		if err != nil {
			return err
		}
		shown := mutedStyle.Render("(default)")
		if ok {
			shown = fmt.Sprint(value)
		}
		cmd.Printf("  %s = %s\n", keyStyle.Render(k.Name), shown)
		cmd.Printf("      %s\n", mutedStyle.Render(k.Description))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errNotConfigured("config")
	}

	value, ok, err := configService.Get(args[0])
	if err != nil {
		return err
	}
	if !ok {
		cmd.Println(mutedStyle.Render("(default)"))
		return nil
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configService == nil {
		return errNotConfigured("config")
	}

	if err := configService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("config set failed: %w", err)
	}
	cmd.Printf("%s %s\n", successStyle.Render("saved"), keyStyle.Render(args[0]))
	return nil
}

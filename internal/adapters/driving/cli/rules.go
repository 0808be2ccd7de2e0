package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voucherbill/internal/extractor"
	"github.com/custodia-labs/voucherbill/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the parsing rules",
	Long: `The parsing rules are the correction table, the detector order and the
recognised currency codes. They are read from rules.toml in the
configuration directory, which is created with the built-in defaults on
first use.`,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective rules as TOML",
	Args:  cobra.NoArgs,
	RunE:  runRulesShow,
}

var rulesPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the rules file path",
	Args:  cobra.NoArgs,
	RunE:  runRulesPath,
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the rules file",
	Args:  cobra.NoArgs,
	RunE:  runRulesCheck,
}

var rulesDefaultsCmd = &cobra.Command{
	Use:         "defaults",
	Short:       "Print the built-in rules",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipBootstrap: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Print(string(rules.DefaultTOML()))
	},
}

func init() {
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesPathCmd)
	rulesCmd.AddCommand(rulesCheckCmd)
	rulesCmd.AddCommand(rulesDefaultsCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesShow(cmd *cobra.Command, _ []string) error {
	if ruleStore == nil {
		return errRulesNotConfigured
	}

	r, err := ruleStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}
	data, err := rules.Encode(r)
	if err != nil {
		return err
	}
	cmd.Print(string(data))
	return nil
}

func runRulesPath(cmd *cobra.Command, _ []string) error {
	if ruleStore == nil {
		return errRulesNotConfigured
	}
	cmd.Println(ruleStore.Path())
	return nil
}

func runRulesCheck(cmd *cobra.Command, _ []string) error {
	if ruleStore == nil {
		return errRulesNotConfigured
	}

	ruleStore.Reload()
	r, err := ruleStore.Load()
	if err != nil {
		return fmt.Errorf("rules are invalid: %w", err)
	}
	ex, err := extractor.New(r)
	if err != nil {
		return fmt.Errorf("rules are invalid: %w", err)
	}

	cmd.Printf("Rules OK: %s\n", ruleStore.Path())
	cmd.Printf("  Corrections: %d\n", len(r.Corrections))
	cmd.Printf("  Currencies:  %v\n", r.Currencies)
	cmd.Println("  Detectors:")
	for i, name := range ex.Detectors() {
		cmd.Printf("    %2d. %s\n", i+1, name)
	}
	return nil
}

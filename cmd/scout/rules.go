package main

import (
	"fmt"

	"palette-hq/scout/pkg/classifier"
	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/ruleset"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Validate and inspect classifier rules",
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a rules file",
	Long: `Parse and validate a rules file. The path defaults to classifier.rules_path
from the config.

Examples:
  scout rules validate rules.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRulesValidate,
}

var rulesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the active rules as YAML",
	Long: `Print the rules in use as YAML: the configured rules file, or the built-in
rules when none is set. The output is a starting point for a custom rules
file:

  scout rules dump > rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runRulesDump,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesValidateCmd, rulesDumpCmd)
}

func runRulesValidate(cmd *cobra.Command, args []string) error {
	path := appConfig.Classifier.RulesPath
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		return cli.NewConfigError("classifier.rules_path", "no rules file given")
	}

	rules, err := classifier.LoadRules(path)
	if err != nil {
		return cli.NewCommandError("rules validate", err)
	}
	if _, err := classifier.New(rules, ruleset.WeightsFromConfig(appConfig.Classifier.Weights)); err != nil {
		return cli.NewCommandError("rules validate", err)
	}

	pterm.Success.Printfln("%s is valid (%d categories)", path, len(rules.Categories))
	return nil
}

func runRulesDump(cmd *cobra.Command, args []string) error {
	rules, err := newRules(nil)
	if err != nil {
		return err
	}
	data, err := rules.Classifier().Rules().Marshal()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
	return err
}

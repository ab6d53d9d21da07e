package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/telemetry/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the Gemini API key",
	Long: `Manage the Gemini API key stored in the system keyring.

The key is looked up in this order: --api-key, SCOUT_GEMINI_API_KEY or
GEMINI_API_KEY (also from the .env file), gemini.api_key in the config
file, and finally the keyring.`,
}

var authSetKeyCmd = &cobra.Command{
	Use:   "set-key [key]",
	Short: "Store an API key in the keyring",
	Long: `Store an API key in the system keyring. Without an argument the key is
read from stdin, which keeps it out of shell history:

  pbpaste | scout auth set-key`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAuthSetKey,
}

var authValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the resolved API key is accepted",
	RunE:  runAuthValidate,
}

var authDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the API key from the keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cli.DeleteAPIKey(); err != nil {
			return err
		}
		pterm.Success.Println("API key removed from keyring")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetKeyCmd, authValidateCmd, authDeleteCmd)
}

func runAuthSetKey(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read API key from stdin: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)

	if err := cli.SaveAPIKey(key); err != nil {
		return err
	}
	pterm.Success.Printfln("API key %s stored in keyring", logging.RedactAPIKey(key))
	return nil
}

func runAuthValidate(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	key, source, err := cli.ResolveAPIKey(apiKey, appConfig.Gemini.APIKey)
	if err != nil {
		return err
	}
	client, err := newGeminiClient(ctx, nil)
	if err != nil {
		return err
	}

	valid, err := client.ValidateAPIKey(ctx)
	if err != nil {
		return cli.NewCommandError("auth validate", err)
	}
	if !valid {
		return cli.NewCommandError("auth validate",
			errors.New("API key "+logging.RedactAPIKey(key)+" from "+source+" was rejected"))
	}
	pterm.Success.Printfln("API key %s from %s is valid", logging.RedactAPIKey(key), source)
	return nil
}

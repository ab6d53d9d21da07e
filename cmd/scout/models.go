package main

import (
	"fmt"
	"io"

	"palette-hq/scout/pkg/cli"

	"github.com/spf13/cobra"
)

var modelsFlags struct {
	format string
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect Gemini models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the models available to the API key",
	RunE:  runModelsList,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(modelsListCmd)

	modelsListCmd.Flags().StringVar(&modelsFlags.format, "format", "text", "output format: text, json, yaml")
}

func runModelsList(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	client, err := newGeminiClient(ctx, nil)
	if err != nil {
		return err
	}
	models, err := client.ListModels(ctx)
	if err != nil {
		return cli.NewCommandError("models list", err)
	}

	return writeResult(cmd, modelsFlags.format, models, func(w io.Writer) error {
		rows := [][]string{{"Name", "Display Name", "Input Tokens", "Output Tokens"}}
		for _, m := range models {
			rows = append(rows, []string{m.Name, m.DisplayName, fmt.Sprint(m.InputTokenLimit), fmt.Sprint(m.OutputTokenLimit)})
		}
		return cli.PrintTable(w, rows)
	})
}

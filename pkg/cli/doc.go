/*
Package cli provides helpers shared by the scout commands.

Output Formatting:

Command results are written as text, JSON or YAML:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Values implementing TextRenderer control their own text output. Tables are
rendered with pterm:

	cli.PrintTable(os.Stdout, [][]string{{"ID", "Category"}, {id, category}})

Progress Reporting:

Batch commands report per-item progress on stderr:

	progress := cli.NewProgressReporter(os.Stderr)
	progress.Start(len(items))
	progress.Done(err == nil)
	progress.Finish()

API Keys:

The Gemini key is resolved from the --api-key flag, then the configuration
(which includes SCOUT_GEMINI_API_KEY and GEMINI_API_KEY), then the system
keyring:

	key, source, err := cli.ResolveAPIKey(flagKey, cfg.Gemini.APIKey)

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()
*/
package cli

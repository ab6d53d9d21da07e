package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"palette-hq/scout/pkg/cli"
	"palette-hq/scout/pkg/design"

	"github.com/spf13/cobra"
)

var mockupFlags struct {
	file       string
	category   string
	style      string
	colors     []string
	mood       string
	variations int
	format     string
	export     bool
	offline    bool
}

var mockupCmd = &cobra.Command{
	Use:   "mockup [brief...]",
	Short: "Build a design mockup with technical specs",
	Long: `Build a mockup for a design brief: an enhanced prompt, a visual description
from Gemini, colour palette, typography, layout and technical specs
(dimensions, file formats, colour mode, timeline and revisions).

Without an API key, or with --offline, a fallback description is used and
the specs are still produced.

Examples:
  scout mockup --category logo "Minimal logo for a coffee roaster, navy and cream"
  scout mockup --category socialMedia --variations 3 --file brief.txt
  scout mockup --export --format json "Business card for a florist"`,
	RunE: runMockup,
}

func init() {
	rootCmd.AddCommand(mockupCmd)

	mockupCmd.Flags().StringVarP(&mockupFlags.file, "file", "f", "", "read the brief from a file (- for stdin)")
	mockupCmd.Flags().StringVar(&mockupFlags.category, "category", design.CategoryGeneral, "design category (logo, socialMedia, businessCard, flyer)")
	mockupCmd.Flags().StringVar(&mockupFlags.style, "style", "", "style, e.g. minimal, bold")
	mockupCmd.Flags().StringSliceVar(&mockupFlags.colors, "colors", nil, "preferred colours")
	mockupCmd.Flags().StringVar(&mockupFlags.mood, "mood", "", "mood, e.g. friendly, professional")
	mockupCmd.Flags().IntVar(&mockupFlags.variations, "variations", 0, "generate this many random variations instead")
	mockupCmd.Flags().StringVar(&mockupFlags.format, "format", "text", "output format: text, json, yaml")
	mockupCmd.Flags().BoolVar(&mockupFlags.export, "export", false, "output the exported specs instead of the designs")
	mockupCmd.Flags().BoolVar(&mockupFlags.offline, "offline", false, "do not call Gemini")
}

func runMockup(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.WithSignals(cmd.Context())
	defer stop()

	if mockupFlags.variations < 0 {
		return cli.NewConfigError("variations", "must not be negative")
	}
	brief, err := cli.ReadInput(args, mockupFlags.file, cmd.InOrStdin())
	if err != nil {
		return err
	}

	var describer design.Describer
	if !mockupFlags.offline {
		client, err := newGeminiClient(ctx, nil)
		switch {
		case err == nil:
			describer = client
		case errors.Is(err, cli.ErrNoAPIKey):
			appLogger.Warn("No Gemini API key, using fallback descriptions")
		default:
			return err
		}
	}
	gen := design.NewGenerator(design.Config{Describer: describer, Logger: appLogger})

	var designs []*design.Design
	if mockupFlags.variations > 0 {
		designs = gen.GenerateVariations(ctx, brief, mockupFlags.category, mockupFlags.variations)
		if len(designs) == 0 {
			return cli.NewCommandError("mockup", errors.New("no variations were generated"))
		}
	} else {
		d, err := gen.GenerateMockup(ctx, brief, mockupFlags.category, design.Options{
			Style:  mockupFlags.style,
			Colors: mockupFlags.colors,
			Mood:   mockupFlags.mood,
		})
		if err != nil {
			return cli.NewCommandError("mockup", err)
		}
		designs = []*design.Design{d}
	}

	if mockupFlags.export {
		exports := make([]*design.Export, 0, len(designs))
		for _, d := range designs {
			e, err := gen.ExportSpecs(d.ID)
			if err != nil {
				return cli.NewCommandError("mockup", err)
			}
			exports = append(exports, e)
		}
		return writeResult(cmd, mockupFlags.format, exports, nil)
	}

	return writeResult(cmd, mockupFlags.format, designs, func(w io.Writer) error {
		for _, d := range designs {
			if err := renderDesign(w, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderDesign(w io.Writer, d *design.Design) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Design %s (%s)\n", d.ID, d.Category)
	if d.Options.Variation > 0 {
		fmt.Fprintf(&b, "Variation %d: %s, %s\n", d.Options.Variation, d.Options.Style, d.Options.Mood)
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(d.Mockup.Description))
	b.WriteString("\n\n")

	var palette []string
	for _, c := range d.Mockup.ColorPalette {
		palette = append(palette, fmt.Sprintf("%s %s", c.Name, c.Hex))
	}
	rows := [][]string{
		{"Spec", "Value"},
		{"Dimensions", strings.Join(d.Mockup.SuggestedDimensions, ", ")},
		{"Formats", strings.Join(d.Mockup.RecommendedFormats, ", ")},
		{"Palette", strings.Join(palette, ", ")},
		{"Typography", d.Mockup.Typography.Heading + " / " + d.Mockup.Typography.Body},
		{"Timeline", d.Specifications.DeliveryTimeline},
		{"Revisions", fmt.Sprint(d.Specifications.RevisionRounds)},
	}
	if len(d.Mockup.Images) > 0 {
		rows = append(rows, []string{"Images", fmt.Sprintf("%d returned (use --format json)", len(d.Mockup.Images))})
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if err := cli.PrintTable(w, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

package design

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"reflect"
	"slices"
	"strings"
	"testing"

	"palette-hq/scout/pkg/generator"
)

type fakeDescriber struct {
	description string
	err         error
	prompts     []string
}

func (f *fakeDescriber) GenerateVisualMockup(_ context.Context, brief string) (*generator.Mockup, error) {
	f.prompts = append(f.prompts, brief)
	if f.err != nil {
		return nil, f.err
	}
	return &generator.Mockup{Description: f.description}, nil
}

func newTestGenerator(d Describer) *Generator {
	return NewGenerator(Config{
		Describer: d,
		Rand:      rand.New(rand.NewPCG(1, 2)),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		category string
		primary  string
	}{
		{CategoryLogo, "500x500"},
		{CategorySocialMedia, "1080x1080"},
		{CategoryBusinessCard, "3.5x2"},
		{CategoryFlyer, "8.5x11"},
		{"webDesign", "500x500"},
		{"", "500x500"},
	}
	for _, tt := range tests {
		if got := TemplateFor(tt.category).Dimensions[0]; got != tt.primary {
			t.Errorf("TemplateFor(%q) primary = %q, want %q", tt.category, got, tt.primary)
		}
	}

	// Copies must not alias the catalog.
	tmpl := TemplateFor(CategoryLogo)
	tmpl.Formats[0] = "GIF"
	if TemplateFor(CategoryLogo).Formats[0] != "PNG" {
		t.Error("TemplateFor returned a shared slice")
	}
}

func TestTimelineAndRevisions(t *testing.T) {
	if got := EstimateTimeline(CategoryFlyer); got != "2-4 business days" {
		t.Errorf("flyer timeline = %q", got)
	}
	if got := EstimateTimeline("packaging"); got != "2-3 business days" {
		t.Errorf("unknown timeline = %q", got)
	}
	if got := SuggestRevisions(CategoryLogo); got != 3 {
		t.Errorf("logo revisions = %d, want 3", got)
	}
	if got := SuggestRevisions("packaging"); got != 2 {
		t.Errorf("unknown revisions = %d, want 2", got)
	}
}

func TestExtractColorPalette(t *testing.T) {
	got := ExtractColorPalette("A Blue and white logo, hint of gray")
	want := []ColorSwatch{{"blue", "#2563eb"}, {"gray", "#6b7280"}, {"white", "#ffffff"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("palette = %v, want %v", got, want)
	}

	def := ExtractColorPalette("a redesign of our hundred-year brand")
	if len(def) != 3 || def[0].Name != "primary" || def[2].Hex != "#f59e0b" {
		t.Errorf("default palette = %v", def)
	}
}

func TestSuggestTypography(t *testing.T) {
	ty := SuggestTypography(CategoryBusinessCard)
	if ty.Heading != "Helvetica" || ty.Body != "Times New Roman" {
		t.Errorf("fonts = %s/%s", ty.Heading, ty.Body)
	}
	if !slices.Equal(ty.Alternatives.Heading, []string{"Futura", "Avenir"}) {
		t.Errorf("heading alternatives = %v", ty.Alternatives.Heading)
	}
	if ty.Sizes.Primary != "18px" || len(ty.Weights) != 4 {
		t.Errorf("sizes/weights = %+v %v", ty.Sizes, ty.Weights)
	}
}

func TestSuggestCustomDimensions(t *testing.T) {
	got := SuggestCustomDimensions("Banner 1200 x 300, around 800 width")
	want := []string{"1200 x 300", "800 width"}
	if !slices.Equal(got, want) {
		t.Errorf("dimensions = %v, want %v", got, want)
	}
	if got := SuggestCustomDimensions("no sizes"); !slices.Equal(got, []string{NoCustomDimensions}) {
		t.Errorf("fallback = %v", got)
	}
}

func TestBuildSpecifications(t *testing.T) {
	flyer := BuildSpecifications("event flyer", CategoryFlyer)
	if flyer.ColorSpecs.Profile != "CMYK" || flyer.ColorSpecs.Resolution != "300 DPI" {
		t.Errorf("flyer colour specs = %+v", flyer.ColorSpecs)
	}
	if flyer.Dimensions.Primary != "8.5x11" || !slices.Equal(flyer.Dimensions.Alternatives, []string{"A4", "1275x1650"}) {
		t.Errorf("flyer dimensions = %+v", flyer.Dimensions)
	}

	social := BuildSpecifications("instagram post", CategorySocialMedia)
	if social.ColorSpecs.Profile != "RGB" || social.ColorSpecs.Resolution != "72 DPI" {
		t.Errorf("social colour specs = %+v", social.ColorSpecs)
	}
	if social.RevisionRounds != 2 || social.DeliveryTimeline != "1-2 business days" {
		t.Errorf("social timeline = %q rounds = %d", social.DeliveryTimeline, social.RevisionRounds)
	}
}

func TestBuildEnhancedPrompt(t *testing.T) {
	got := BuildEnhancedPrompt("Bakery logo", "Create a logo", Options{
		Style:  "vintage",
		Colors: []string{"red", "cream"},
		Mood:   "friendly",
	})
	for _, want := range []string{
		`Create a logo based on this design brief: "Bakery logo"`,
		"Style: vintage",
		"Color palette: red, cream",
		"Mood: friendly",
		"Print and digital ready",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(BuildEnhancedPrompt("x", "y", Options{}), "Style:") {
		t.Error("empty options should not add a style line")
	}
}

func TestGenerateMockup(t *testing.T) {
	d := &fakeDescriber{description: "Warm vintage wordmark"}
	g := newTestGenerator(d)

	design, err := g.GenerateMockup(context.Background(), "Bakery logo in red", CategoryLogo, Options{})
	if err != nil {
		t.Fatalf("GenerateMockup() error = %v", err)
	}
	if design.ID == "" || design.Status != "completed" {
		t.Errorf("design = %+v", design)
	}
	if design.Mockup.Description != "Warm vintage wordmark" || design.Mockup.Fallback {
		t.Errorf("mockup = %+v", design.Mockup)
	}
	if design.Mockup.ColorPalette[0].Name != "red" {
		t.Errorf("palette = %v", design.Mockup.ColorPalette)
	}
	if !strings.HasPrefix(d.prompts[0], "Create a modern, minimalist logo design") {
		t.Errorf("prompt = %q", d.prompts[0])
	}
	if len(g.History()) != 1 {
		t.Errorf("history = %d, want 1", len(g.History()))
	}
}

func TestGenerateMockup_Fallback(t *testing.T) {
	tests := []struct {
		name      string
		describer Describer
	}{
		{"no describer", nil},
		{"describer error", &fakeDescriber{err: errors.New("quota")}},
		{"empty description", &fakeDescriber{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(tt.describer)
			design, err := g.GenerateMockup(context.Background(), "brief", "", Options{})
			if err != nil {
				t.Fatalf("GenerateMockup() error = %v", err)
			}
			if design.Mockup.Description != FallbackDescription || !design.Mockup.Fallback {
				t.Error("expected fallback description")
			}
			if design.Category != CategoryGeneral {
				t.Errorf("category = %q, want general", design.Category)
			}
		})
	}
}

func TestGenerateMockup_Cancelled(t *testing.T) {
	g := newTestGenerator(&fakeDescriber{err: context.Canceled})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.GenerateMockup(ctx, "brief", CategoryLogo, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(g.History()) != 0 {
		t.Error("cancelled design should not be recorded")
	}
}

func TestGenerateVariations(t *testing.T) {
	g := newTestGenerator(&fakeDescriber{description: "concept"})
	designs := g.GenerateVariations(context.Background(), "brief", CategoryFlyer, 3)

	if len(designs) != 3 {
		t.Fatalf("variations = %d, want 3", len(designs))
	}
	for i, d := range designs {
		if d.Options.Variation != i+1 {
			t.Errorf("variation %d numbered %d", i, d.Options.Variation)
		}
		if !slices.Contains(variationStyles, d.Options.Style) || !slices.Contains(variationMoods, d.Options.Mood) {
			t.Errorf("unexpected style/mood %q/%q", d.Options.Style, d.Options.Mood)
		}
	}

	// Same seed, same choices.
	again := newTestGenerator(&fakeDescriber{description: "concept"}).
		GenerateVariations(context.Background(), "brief", CategoryFlyer, 3)
	for i := range designs {
		if designs[i].Options.Style != again[i].Options.Style || designs[i].Options.Mood != again[i].Options.Mood {
			t.Errorf("variation %d not reproducible", i+1)
		}
	}
}

func TestHistoryExportAndClear(t *testing.T) {
	g := NewGenerator(Config{MaxHistory: 2, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	var ids []string
	for i := 0; i < 3; i++ {
		d, err := g.GenerateMockup(context.Background(), "brief", CategoryLogo, Options{})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, d.ID)
	}

	if len(g.History()) != 2 {
		t.Fatalf("history = %d, want 2", len(g.History()))
	}
	if _, err := g.ExportSpecs(ids[0]); !errors.Is(err, ErrDesignNotFound) {
		t.Errorf("evicted design export error = %v", err)
	}

	exp, err := g.ExportSpecs(ids[2])
	if err != nil {
		t.Fatalf("ExportSpecs() error = %v", err)
	}
	if exp.ProjectName != "Design_"+ids[2] || exp.Format != "JSON" || exp.Specifications.RevisionRounds != 3 {
		t.Errorf("export = %+v", exp)
	}

	g.ClearHistory()
	if len(g.History()) != 0 {
		t.Error("history not cleared")
	}
}

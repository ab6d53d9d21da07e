package design

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"palette-hq/scout/pkg/generator"

	"github.com/google/uuid"
)

// DefaultMaxHistory bounds the in-memory design history.
const DefaultMaxHistory = 100

// ErrDesignNotFound is returned by ExportSpecs for unknown ids.
var ErrDesignNotFound = errors.New("design not found")

// FallbackDescription is used when no mockup description can be generated.
const FallbackDescription = `Design Mockup Concept:

Based on the provided brief, here's a detailed visual concept:

LAYOUT & COMPOSITION:
- Clean, balanced composition with strategic white space
- Clear visual hierarchy with primary and secondary elements
- Grid-based layout ensuring professional alignment

VISUAL ELEMENTS:
- Modern typography with excellent readability
- Cohesive color scheme supporting brand identity
- Strategic use of imagery or iconography
- Consistent spacing and proportions

TECHNICAL CONSIDERATIONS:
- High resolution suitable for both print and digital
- Scalable design elements for various applications
- Professional color profile (CMYK for print, RGB for digital)
- Multiple format deliverables as specified

This concept provides a solid foundation for the final design execution.`

var (
	variationStyles = []string{"modern", "minimalist", "bold", "elegant", "creative", "professional"}
	variationMoods  = []string{"professional", "friendly", "energetic", "sophisticated", "playful", "trustworthy"}
)

// Describer turns a prompt into a visual mockup. *generator.Client
// implements it.
type Describer interface {
	GenerateVisualMockup(ctx context.Context, brief string) (*generator.Mockup, error)
}

// Options tune a single mockup.
type Options struct {
	Style     string   `json:"style,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Mood      string   `json:"mood,omitempty"`
	Variation int      `json:"variation,omitempty"`
}

// Mockup is the visual part of a design.
type Mockup struct {
	Type                string            `json:"type"`
	Description         string            `json:"description"`
	Fallback            bool              `json:"fallback"`
	Images              []generator.Image `json:"images,omitempty"`
	Prompt              string            `json:"prompt"`
	Category            string            `json:"category"`
	SuggestedDimensions []string          `json:"suggested_dimensions"`
	RecommendedFormats  []string          `json:"recommended_formats"`
	ColorPalette        []ColorSwatch     `json:"color_palette"`
	Typography          Typography        `json:"typography"`
	LayoutStructure     Layout            `json:"layout_structure"`
}

// Design is one generated design with its specs.
type Design struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Category       string         `json:"category"`
	Brief          string         `json:"brief"`
	Mockup         Mockup         `json:"mockup"`
	Specifications Specifications `json:"specifications"`
	Options        Options        `json:"options"`
	Status         string         `json:"status"`
}

// Export is the exported form of a design.
type Export struct {
	ProjectName    string         `json:"project_name"`
	Brief          string         `json:"brief"`
	Specifications Specifications `json:"specifications"`
	Mockup         Mockup         `json:"mockup"`
	ExportDate     time.Time      `json:"export_date"`
	Format         string         `json:"format"`
}

// Config configures a Generator.
type Config struct {
	// Describer produces mockup descriptions. Nil always uses the fallback.
	Describer Describer

	// Rand picks variation styles and moods. Nil uses a random source.
	Rand *rand.Rand

	// MaxHistory bounds History; oldest designs are evicted first.
	// Default: 100
	MaxHistory int

	Logger *slog.Logger
}

// Generator builds design mockups and technical specs from briefs.
type Generator struct {
	describer  Describer
	logger     *slog.Logger
	maxHistory int

	mu      sync.Mutex
	rng     *rand.Rand
	history []*Design
}

// NewGenerator creates a Generator.
func NewGenerator(cfg Config) *Generator {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{
		describer:  cfg.Describer,
		logger:     cfg.Logger,
		maxHistory: cfg.MaxHistory,
		rng:        cfg.Rand,
	}
}

// BuildEnhancedPrompt combines a template prompt, the brief and the options.
func BuildEnhancedPrompt(brief, basePrompt string, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s based on this design brief: %q", basePrompt, brief)
	if opts.Style != "" {
		fmt.Fprintf(&b, "\nStyle: %s", opts.Style)
	}
	if len(opts.Colors) > 0 {
		fmt.Fprintf(&b, "\nColor palette: %s", strings.Join(opts.Colors, ", "))
	}
	if opts.Mood != "" {
		fmt.Fprintf(&b, "\nMood: %s", opts.Mood)
	}
	b.WriteString(`
Requirements:
    - Professional, high-quality design
    - Clean, modern aesthetic
    - Appropriate for business use
    - Scalable and versatile
    - Print and digital ready`)
	return b.String()
}

// GenerateMockup builds a design for brief and adds it to the history.
// A failing describer is replaced by the fallback description; only a done
// ctx fails the call.
func (g *Generator) GenerateMockup(ctx context.Context, brief, category string, opts Options) (*Design, error) {
	if category == "" {
		category = CategoryGeneral
	}

	mockup, err := g.createMockup(ctx, brief, category, opts)
	if err != nil {
		return nil, fmt.Errorf("design generation failed: %w", err)
	}

	d := &Design{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		Category:       category,
		Brief:          brief,
		Mockup:         mockup,
		Specifications: BuildSpecifications(brief, category),
		Options:        opts,
		Status:         "completed",
	}

	g.mu.Lock()
	g.history = append(g.history, d)
	if over := len(g.history) - g.maxHistory; over > 0 {
		g.history = append([]*Design(nil), g.history[over:]...)
	}
	g.mu.Unlock()

	return d, nil
}

func (g *Generator) createMockup(ctx context.Context, brief, category string, opts Options) (Mockup, error) {
	t := TemplateFor(category)
	prompt := BuildEnhancedPrompt(brief, t.Prompts[0], opts)

	m := Mockup{
		Type:                "visual_mockup",
		Prompt:              prompt,
		Category:            category,
		SuggestedDimensions: t.Dimensions,
		RecommendedFormats:  t.Formats,
		ColorPalette:        ExtractColorPalette(brief),
		Typography:          SuggestTypography(category),
		LayoutStructure:     LayoutFor(category),
	}

	if g.describer != nil {
		result, err := g.describer.GenerateVisualMockup(ctx, prompt)
		if err == nil && result != nil && (result.Description != "" || len(result.Images) > 0) {
			m.Description = result.Description
			m.Images = result.Images
			return m, nil
		}
		if ctx.Err() != nil {
			return Mockup{}, ctx.Err()
		}
		g.logger.Warn("Mockup generation failed, using fallback description",
			"category", category,
			"error", err,
		)
	}

	m.Description = FallbackDescription
	m.Fallback = true
	return m, nil
}

// GenerateVariations builds count designs with random styles and moods.
// Failed variations are logged and skipped.
func (g *Generator) GenerateVariations(ctx context.Context, brief, category string, count int) []*Design {
	var out []*Design
	for i := 0; i < count; i++ {
		g.mu.Lock()
		opts := Options{
			Style:     variationStyles[g.rng.IntN(len(variationStyles))],
			Mood:      variationMoods[g.rng.IntN(len(variationMoods))],
			Variation: i + 1,
		}
		g.mu.Unlock()

		d, err := g.GenerateMockup(ctx, brief, category, opts)
		if err != nil {
			g.logger.Error("Failed to generate variation", "variation", i+1, "error", err)
			continue
		}
		out = append(out, d)
	}
	return out
}

// History returns the generated designs, oldest first.
func (g *Generator) History() []*Design {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]*Design(nil), g.history...)
}

// ClearHistory forgets every generated design.
func (g *Generator) ClearHistory() {
	g.mu.Lock()
	g.history = nil
	g.mu.Unlock()
}

// ExportSpecs returns the exportable specs of a design.
func (g *Generator) ExportSpecs(id string) (*Export, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, d := range g.history {
		if d.ID == id {
			return &Export{
				ProjectName:    "Design_" + id,
				Brief:          d.Brief,
				Specifications: d.Specifications,
				Mockup:         d.Mockup,
				ExportDate:     time.Now().UTC(),
				Format:         "JSON",
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrDesignNotFound, id)
}

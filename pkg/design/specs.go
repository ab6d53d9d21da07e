package design

import (
	"regexp"
	"strings"
)

// ColorSwatch is a named palette colour.
type ColorSwatch struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

var paletteColors = []ColorSwatch{
	{"blue", "#2563eb"},
	{"red", "#dc2626"},
	{"green", "#16a34a"},
	{"purple", "#9333ea"},
	{"orange", "#ea580c"},
	{"yellow", "#ca8a04"},
	{"pink", "#db2777"},
	{"gray", "#6b7280"},
	{"black", "#000000"},
	{"white", "#ffffff"},
}

var defaultPalette = []ColorSwatch{
	{"primary", "#2563eb"},
	{"secondary", "#64748b"},
	{"accent", "#f59e0b"},
}

var paletteWords = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(paletteColors))
	for _, c := range paletteColors {
		m[c.Name] = regexp.MustCompile(`\b` + c.Name + `\b`)
	}
	return m
}()

// ExtractColorPalette returns the palette colours named in brief, or a
// default primary/secondary/accent palette when none are named.
func ExtractColorPalette(brief string) []ColorSwatch {
	lower := strings.ToLower(brief)

	var out []ColorSwatch
	for _, c := range paletteColors {
		if paletteWords[c.Name].MatchString(lower) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return append([]ColorSwatch(nil), defaultPalette...)
	}
	return out
}

// Typography is a font recommendation.
type Typography struct {
	Heading      string           `json:"heading"`
	Body         string           `json:"body"`
	Alternatives FontAlternatives `json:"alternatives"`
	Sizes        FontSizes        `json:"sizes"`
	Weights      []string         `json:"weights"`
}

// FontAlternatives are the runner-up fonts.
type FontAlternatives struct {
	Heading []string `json:"heading"`
	Body    []string `json:"body"`
}

// SuggestTypography returns the font recommendation for category.
func SuggestTypography(category string) Typography {
	e := lookup(category)
	return Typography{
		Heading: e.fonts.primary[0],
		Body:    e.fonts.secondary[0],
		Alternatives: FontAlternatives{
			Heading: clone(e.fonts.primary[1:]),
			Body:    clone(e.fonts.secondary[1:]),
		},
		Sizes:   e.sizes,
		Weights: []string{"400", "500", "600", "700"},
	}
}

// Specifications are the technical deliverable specs of a design.
type Specifications struct {
	Dimensions       DimensionSpecs `json:"dimensions"`
	Formats          FormatSpecs    `json:"formats"`
	ColorSpecs       ColorSpecs     `json:"color_specs"`
	Typography       Typography     `json:"typography"`
	DeliveryTimeline string         `json:"delivery_timeline"`
	RevisionRounds   int            `json:"revision_rounds"`
}

// DimensionSpecs lists output sizes.
type DimensionSpecs struct {
	Primary      string   `json:"primary"`
	Alternatives []string `json:"alternatives"`
	Custom       []string `json:"custom"`
}

// FormatSpecs lists file formats.
type FormatSpecs struct {
	Deliverables []string `json:"deliverables"`
	WorkingFiles []string `json:"working_files"`
	FinalFiles   []string `json:"final_files"`
}

// ColorSpecs is the colour profile and resolution.
type ColorSpecs struct {
	Profile    string `json:"profile"`
	Resolution string `json:"resolution"`
	ColorSpace string `json:"color_space"`
}

// NoCustomDimensions is reported when a brief names no sizes.
const NoCustomDimensions = "Custom dimensions as specified"

var customDimensionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*x\s*\d+`),
	regexp.MustCompile(`\d+\s*(?:width|height|w|h)`),
}

// SuggestCustomDimensions returns the sizes mentioned in brief.
func SuggestCustomDimensions(brief string) []string {
	lower := strings.ToLower(brief)

	var out []string
	for _, p := range customDimensionPatterns {
		out = append(out, p.FindAllString(lower, -1)...)
	}
	if len(out) == 0 {
		return []string{NoCustomDimensions}
	}
	return out
}

// IsPrint reports whether category is a print category.
func IsPrint(category string) bool {
	return printCategories[category]
}

// BuildSpecifications assembles the technical specs for a brief.
func BuildSpecifications(brief, category string) Specifications {
	t := TemplateFor(category)

	colors := ColorSpecs{Profile: "RGB", Resolution: "72 DPI", ColorSpace: "sRGB"}
	if IsPrint(category) {
		colors.Profile = "CMYK"
		colors.Resolution = "300 DPI"
	}

	return Specifications{
		Dimensions: DimensionSpecs{
			Primary:      t.Dimensions[0],
			Alternatives: t.Dimensions[1:],
			Custom:       SuggestCustomDimensions(brief),
		},
		Formats: FormatSpecs{
			Deliverables: t.Formats,
			WorkingFiles: []string{"PSD", "AI"},
			FinalFiles:   []string{"PNG", "PDF", "SVG"},
		},
		ColorSpecs:       colors,
		Typography:       SuggestTypography(category),
		DeliveryTimeline: EstimateTimeline(category),
		RevisionRounds:   SuggestRevisions(category),
	}
}

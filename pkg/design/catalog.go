package design

// Category names with dedicated templates. Anything else uses the logo
// template.
const (
	CategoryLogo         = "logo"
	CategorySocialMedia  = "socialMedia"
	CategoryBusinessCard = "businessCard"
	CategoryFlyer        = "flyer"
	CategoryGeneral      = "general"
)

// Template holds the base prompts and output options of a category.
type Template struct {
	Prompts    []string `json:"prompts"`
	Dimensions []string `json:"dimensions"`
	Formats    []string `json:"formats"`
}

// FontSizes are the suggested type sizes for a category.
type FontSizes struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Body      string `json:"body"`
}

// Layout describes the layout structure of a category.
type Layout struct {
	Type      string   `json:"type"`
	Elements  []string `json:"elements"`
	Hierarchy string   `json:"hierarchy"`
}

type fontFamilies struct {
	primary   []string
	secondary []string
}

type categoryEntry struct {
	template  Template
	fonts     fontFamilies
	sizes     FontSizes
	layout    Layout
	timeline  string
	revisions int
}

var catalog = map[string]categoryEntry{
	CategoryLogo: {
		template: Template{
			Prompts: []string{
				"Create a modern, minimalist logo design",
				"Design a professional business logo with clean typography",
				"Generate a creative brand mark with geometric elements",
			},
			Dimensions: []string{"500x500", "1000x1000", "2000x2000"},
			Formats:    []string{"PNG", "SVG", "AI", "EPS"},
		},
		fonts: fontFamilies{
			primary:   []string{"Montserrat", "Poppins", "Inter"},
			secondary: []string{"Open Sans", "Lato", "Source Sans Pro"},
		},
		sizes:     FontSizes{Primary: "48px", Secondary: "24px", Body: "16px"},
		layout:    Layout{Type: "centered", Elements: []string{"logo mark", "company name", "tagline"}, Hierarchy: "logo > name > tagline"},
		timeline:  "2-3 business days",
		revisions: 3,
	},
	CategorySocialMedia: {
		template: Template{
			Prompts: []string{
				"Design an engaging social media post with modern typography",
				"Create a professional Instagram story template",
				"Generate a Facebook cover design with brand elements",
			},
			Dimensions: []string{"1080x1080", "1080x1920", "1200x630"},
			Formats:    []string{"PNG", "JPG", "PSD"},
		},
		fonts: fontFamilies{
			primary:   []string{"Roboto", "Nunito", "Raleway"},
			secondary: []string{"Open Sans", "Lato", "PT Sans"},
		},
		sizes:     FontSizes{Primary: "36px", Secondary: "20px", Body: "14px"},
		layout:    Layout{Type: "grid", Elements: []string{"header", "main content", "call to action"}, Hierarchy: "visual > headline > description > CTA"},
		timeline:  "1-2 business days",
		revisions: 2,
	},
	CategoryBusinessCard: {
		template: Template{
			Prompts: []string{
				"Design a professional business card with clean layout",
				"Create an elegant business card with modern typography",
				"Generate a creative business card with unique elements",
			},
			Dimensions: []string{"3.5x2", "89x51mm", "1050x600"},
			Formats:    []string{"PDF", "AI", "PSD", "PNG"},
		},
		fonts: fontFamilies{
			primary:   []string{"Helvetica", "Futura", "Avenir"},
			secondary: []string{"Times New Roman", "Georgia", "Minion Pro"},
		},
		sizes:     FontSizes{Primary: "18px", Secondary: "12px", Body: "10px"},
		layout:    Layout{Type: "split", Elements: []string{"name", "title", "contact info", "logo"}, Hierarchy: "name > title > contact > logo"},
		timeline:  "1-2 business days",
		revisions: 2,
	},
	CategoryFlyer: {
		template: Template{
			Prompts: []string{
				"Create a professional flyer design with clear hierarchy",
				"Design an event flyer with engaging visuals",
				"Generate a promotional flyer with modern layout",
			},
			Dimensions: []string{"8.5x11", "A4", "1275x1650"},
			Formats:    []string{"PDF", "AI", "PSD", "PNG"},
		},
		fonts: fontFamilies{
			primary:   []string{"Oswald", "Bebas Neue", "Montserrat"},
			secondary: []string{"Open Sans", "Lato", "Roboto"},
		},
		sizes:     FontSizes{Primary: "42px", Secondary: "24px", Body: "16px"},
		layout:    Layout{Type: "hierarchical", Elements: []string{"headline", "subheading", "body", "CTA", "footer"}, Hierarchy: "headline > visual > body > CTA > details"},
		timeline:  "2-4 business days",
		revisions: 3,
	},
}

const (
	generalTimeline  = "2-3 business days"
	generalRevisions = 2
)

// printCategories produce physical output and get print colour settings.
var printCategories = map[string]bool{
	"printDesign":        true,
	"packaging":          true,
	CategoryBusinessCard: true,
	CategoryFlyer:        true,
}

func lookup(category string) categoryEntry {
	if e, ok := catalog[category]; ok {
		return e
	}
	return catalog[CategoryLogo]
}

// TemplateFor returns a copy of the template for category.
func TemplateFor(category string) Template {
	t := lookup(category).template
	return Template{
		Prompts:    clone(t.Prompts),
		Dimensions: clone(t.Dimensions),
		Formats:    clone(t.Formats),
	}
}

// LayoutFor returns the layout structure for category.
func LayoutFor(category string) Layout {
	l := lookup(category).layout
	l.Elements = clone(l.Elements)
	return l
}

// FontSizesFor returns the suggested font sizes for category.
func FontSizesFor(category string) FontSizes {
	return lookup(category).sizes
}

// EstimateTimeline returns the delivery estimate for category.
func EstimateTimeline(category string) string {
	if e, ok := catalog[category]; ok {
		return e.timeline
	}
	return generalTimeline
}

// SuggestRevisions returns the number of revision rounds for category.
func SuggestRevisions(category string) int {
	if e, ok := catalog[category]; ok {
		return e.revisions
	}
	return generalRevisions
}

func clone(in []string) []string {
	return append([]string(nil), in...)
}

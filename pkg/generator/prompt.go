package generator

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"palette-hq/scout/pkg/classifier"
)

// visualBriefLimit is the number of brief characters quoted in a mockup prompt.
const visualBriefLimit = 500

const briefSections = `

Please provide a detailed design brief including:

  🎯 DESIGN CONCEPT & STRATEGY
  - Core design concept and creative direction
  - Target audience and brand positioning
  - Key messaging and communication goals

  🎨 VISUAL IDENTITY
  - Color palette (3-5 colors with hex codes and psychology)
  - Typography recommendations (primary and secondary fonts)
  - Visual style and aesthetic direction
  - Mood and tone guidelines

  📐 TECHNICAL SPECIFICATIONS
  - Recommended dimensions and formats
  - File deliverables (PSD, AI, PNG, etc.)
  - Print vs digital considerations
  - Resolution and quality requirements

  🔧 LAYOUT & COMPOSITION
  - Grid system and layout structure
  - Hierarchy and information architecture
  - Key visual elements and their placement
  - White space and balance considerations

  💡 CREATIVE ELEMENTS
  - Imagery style and photography direction
  - Iconography and graphic elements
  - Patterns, textures, or decorative elements
  - Interactive or motion considerations (if applicable)

  📋 PROJECT DELIVERABLES
  - Primary deliverable specifications
  - Additional format variations needed
  - Revision rounds and approval process
  - Timeline and milestone recommendations

  🚀 IMPLEMENTATION NOTES
  - Technical constraints or considerations
  - Brand guidelines compliance
  - Scalability and future applications
  - Success metrics and evaluation criteria

  Format this as a professional design brief that can be used immediately for design execution.`

const visualGuidance = `

  Generate a high-quality, professional design that incorporates:
  - Clean, modern aesthetic
  - Appropriate color scheme
  - Professional typography
  - Balanced composition
  - Industry-standard design principles

  Style: Professional, clean, modern, suitable for business use
  Quality: High resolution, print-ready quality
  Format: Suitable for presentation to clients`

// ImageAnalysisPrompt accompanies a reference image.
const ImageAnalysisPrompt = "Analyze this reference image for design elements. " +
	"Provide detailed analysis of colors, typography, layout, style, and design principles used. " +
	"Suggest how to recreate or adapt these elements for a new design."

// BuildBriefPrompt builds the design brief prompt for a client message.
// The analysis context block is included when analysis is non-nil.
func BuildBriefPrompt(text string, analysis *classifier.MessageAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a comprehensive graphic design brief based on this client request: %q.", text)

	if analysis != nil {
		reqs, err := json.MarshalIndent(analysis.Requirements, "    ", "  ")
		if err != nil {
			reqs = []byte("{}")
		}
		fmt.Fprintf(&b, "\n\nClient Analysis Context:\n")
		fmt.Fprintf(&b, "    - Design Category: %s\n", analysis.CategoryName())
		fmt.Fprintf(&b, "    - Urgency Level: %s\n", analysis.Urgency.Level)
		fmt.Fprintf(&b, "    - Budget Range: %s\n", analysis.Budget.EstimatedRange)
		fmt.Fprintf(&b, "    - Client Sentiment: %s\n", analysis.Sentiment.Sentiment)
		fmt.Fprintf(&b, "    - Detected Requirements: %s\n", reqs)
		fmt.Fprintf(&b, "    - Confidence Score: %d%%", int(math.Round(analysis.Confidence*100)))
	}

	b.WriteString(briefSections)
	return b.String()
}

// BuildVisualPrompt builds the mockup prompt from a design brief, quoting at
// most the first 500 characters of it.
func BuildVisualPrompt(brief string) string {
	return fmt.Sprintf("Generate a visual design mockup: Create a professional graphic design mockup based on this brief: %q...%s",
		truncateRunes(brief, visualBriefLimit), visualGuidance)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

package classifier

import (
	"math"
	"strings"
	"text/template"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":  func(f float64) int { return int(math.Round(f * 100)) },
	"join": func(s []string) string { return strings.Join(s, ", ") },
	"category": func(a MessageAnalysis) string {
		if top, ok := a.TopCategory(); ok {
			return top.Name
		}
		return "General"
	},
}).Parse(`Message Analysis Report

Category:   {{ category . }}
Urgency:    {{ .Urgency.Level }} ({{ pct .Urgency.Score }}%)
Budget:     {{ .Budget.Level }} ({{ .Budget.EstimatedRange }})
Sentiment:  {{ .Sentiment.Sentiment }}
Confidence: {{ pct .Confidence }}%
{{- with .Requirements }}
{{- if .Colors }}
Colors:       {{ join .Colors }}{{ end }}
{{- if .Style }}
Style:        {{ join .Style }}{{ end }}
{{- if .Dimensions }}
Dimensions:   {{ join .Dimensions }}{{ end }}
{{- if .Deliverables }}
Deliverables: {{ join .Deliverables }}{{ end }}
{{- if .Revisions }}
Revisions:    {{ join .Revisions }}{{ end }}
{{- end }}
`))

// Report renders a human-readable summary of an analysis.
func Report(a MessageAnalysis) string {
	var b strings.Builder
	if err := reportTemplate.Execute(&b, a); err != nil {
		// The template only reads fields of a value type; execution cannot fail.
		panic(err)
	}
	return b.String()
}

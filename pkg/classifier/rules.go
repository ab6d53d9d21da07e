package classifier

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules is the complete set of rule tables used by a Classifier.
// Tables are ordered slices: iteration order is declaration order, which is
// also the tie-break for categories with equal match counts.
type Rules struct {
	Categories   []CategoryRule    `yaml:"categories"`
	Urgency      []PhraseRule      `yaml:"urgency"`
	Budget       []PhraseRule      `yaml:"budget"`
	BudgetRanges map[Level]string  `yaml:"budget_ranges"`
	UrgencyScore map[Level]float64 `yaml:"urgency_scores"`
	Sentiment    SentimentWords    `yaml:"sentiment"`
	Colors       []string          `yaml:"colors"`
	Styles       []string          `yaml:"styles"`
	Deliverables []string          `yaml:"deliverables"`
}

// CategoryRule defines one design category.
type CategoryRule struct {
	Name         string   `yaml:"name"`
	Keywords     []string `yaml:"keywords"`
	UrgencyWords []string `yaml:"urgency_words"`
	Complexity   Level    `yaml:"complexity"`
}

// PhraseRule maps a level to its trigger phrases.
type PhraseRule struct {
	Level   Level    `yaml:"level"`
	Phrases []string `yaml:"phrases"`
}

// SentimentWords holds the word lists used for sentiment analysis.
type SentimentWords struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	Urgent   []string `yaml:"urgent"`
}

// DefaultRules returns the built-in rule tables. Each call returns a fresh copy.
//
// The budget phrases carry no dollar amounts; literal amounts go through the
// numeric fallback and are echoed as the estimate.
func DefaultRules() Rules {
	return Rules{
		Categories: []CategoryRule{
			{
				Name:         "logo",
				Keywords:     []string{"logo", "brand mark", "company logo", "business logo", "logomark", "logotype"},
				UrgencyWords: []string{"asap", "urgent", "rush", "quick", "fast"},
				Complexity:   LevelMedium,
			},
			{
				Name:         "socialMedia",
				Keywords:     []string{"instagram", "facebook", "twitter", "linkedin", "social media", "post", "story", "cover"},
				UrgencyWords: []string{"today", "tonight", "this evening"},
				Complexity:   LevelLow,
			},
			{
				Name:         "printDesign",
				Keywords:     []string{"flyer", "brochure", "poster", "business card", "letterhead", "print", "branding"},
				UrgencyWords: []string{"print deadline", "printing", "tomorrow"},
				Complexity:   LevelHigh,
			},
			{
				Name:         "webDesign",
				Keywords:     []string{"website", "web design", "landing page", "banner", "header", "ui", "ux"},
				UrgencyWords: []string{"launch", "go live", "deadline"},
				Complexity:   LevelHigh,
			},
			{
				Name:         "packaging",
				Keywords:     []string{"packaging", "label", "product design", "box design", "bottle"},
				UrgencyWords: []string{"production", "manufacturing"},
				Complexity:   LevelHigh,
			},
		},
		Urgency: []PhraseRule{
			{Level: LevelLow, Phrases: []string{"whenever", "no rush", "take your time", "flexible"}},
			{Level: LevelMedium, Phrases: []string{"soon", "this week", "few days"}},
			{Level: LevelHigh, Phrases: []string{"asap", "urgent", "rush", "today", "tomorrow", "deadline"}},
		},
		Budget: []PhraseRule{
			{Level: LevelLow, Phrases: []string{"cheap", "affordable", "low cost", "low budget", "tight budget", "small budget"}},
			{Level: LevelMedium, Phrases: []string{"reasonable", "fair price", "mid-range"}},
			{Level: LevelHigh, Phrases: []string{"premium", "high quality", "professional"}},
		},
		BudgetRanges: map[Level]string{
			LevelLow:    "$5-$25",
			LevelMedium: "$25-$75",
			LevelHigh:   "$75-$200+",
		},
		UrgencyScore: map[Level]float64{
			LevelLow:    0.3,
			LevelMedium: 0.6,
			LevelHigh:   0.9,
		},
		Sentiment: SentimentWords{
			Positive: []string{"great", "awesome", "love", "perfect", "excellent", "amazing", "fantastic"},
			Negative: []string{"bad", "terrible", "hate", "awful", "horrible", "disappointed"},
			Urgent:   []string{"need", "must", "have to", "required", "important"},
		},
		Colors: []string{"red", "blue", "green", "yellow", "orange", "purple", "pink", "black", "white", "gray", "grey"},
		Styles: []string{
			"modern", "vintage", "minimalist", "bold", "elegant", "playful", "professional", "creative",
			"clean", "artistic", "corporate", "fun", "serious", "luxury", "casual", "formal",
		},
		Deliverables: []string{
			"psd", "ai", "eps", "pdf", "png", "jpg", "jpeg", "svg", "source files",
			"editable", "vector", "high resolution", "print ready", "web ready",
		},
	}
}

// ParseRules parses YAML rule tables. Sections left out of the document keep
// their default values.
func ParseRules(data []byte) (Rules, error) {
	var parsed Rules
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := DefaultRules()
	if len(parsed.Categories) > 0 {
		rules.Categories = parsed.Categories
	}
	if len(parsed.Urgency) > 0 {
		rules.Urgency = parsed.Urgency
	}
	if len(parsed.Budget) > 0 {
		rules.Budget = parsed.Budget
	}
	for level, r := range parsed.BudgetRanges {
		rules.BudgetRanges[level] = r
	}
	for level, s := range parsed.UrgencyScore {
		rules.UrgencyScore[level] = s
	}
	if len(parsed.Sentiment.Positive) > 0 {
		rules.Sentiment.Positive = parsed.Sentiment.Positive
	}
	if len(parsed.Sentiment.Negative) > 0 {
		rules.Sentiment.Negative = parsed.Sentiment.Negative
	}
	if len(parsed.Sentiment.Urgent) > 0 {
		rules.Sentiment.Urgent = parsed.Sentiment.Urgent
	}
	if len(parsed.Colors) > 0 {
		rules.Colors = parsed.Colors
	}
	if len(parsed.Styles) > 0 {
		rules.Styles = parsed.Styles
	}
	if len(parsed.Deliverables) > 0 {
		rules.Deliverables = parsed.Deliverables
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// LoadRules reads and parses a YAML rules file.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file %q: %w", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return Rules{}, fmt.Errorf("rules file %q: %w", path, err)
	}
	return rules, nil
}

// Marshal renders the rules as YAML.
func (r Rules) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// Validate checks the rule tables and reports every problem found.
func (r Rules) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(r.Categories))
	for i, c := range r.Categories {
		name := strings.TrimSpace(c.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate category %q", i, name))
		}
		seen[name] = true

		if len(c.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("categories[%d]: at least one keyword is required", i))
		}
		if !c.Complexity.Rated() {
			errs = append(errs, fmt.Errorf("categories[%d]: complexity must be low, medium or high, got %q", i, c.Complexity))
		}
	}

	errs = append(errs, validatePhraseTable("urgency", r.Urgency)...)
	errs = append(errs, validatePhraseTable("budget", r.Budget)...)

	for _, rule := range r.Urgency {
		score, ok := r.UrgencyScore[rule.Level]
		if !ok {
			errs = append(errs, fmt.Errorf("urgency_scores: missing score for level %q", rule.Level))
			continue
		}
		if score < 0 || score > 1 {
			errs = append(errs, fmt.Errorf("urgency_scores[%s]: score must be between 0 and 1, got %v", rule.Level, score))
		}
	}
	for _, rule := range r.Budget {
		if _, ok := r.BudgetRanges[rule.Level]; !ok {
			errs = append(errs, fmt.Errorf("budget_ranges: missing range for level %q", rule.Level))
		}
	}

	return errors.Join(errs...)
}

func validatePhraseTable(name string, table []PhraseRule) []error {
	var errs []error
	seen := make(map[Level]bool, len(table))
	for i, rule := range table {
		if !rule.Level.Rated() {
			errs = append(errs, fmt.Errorf("%s[%d]: level must be low, medium or high, got %q", name, i, rule.Level))
		}
		if seen[rule.Level] {
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate level %q", name, i, rule.Level))
		}
		seen[rule.Level] = true
		if len(rule.Phrases) == 0 {
			errs = append(errs, fmt.Errorf("%s[%d]: at least one phrase is required", name, i))
		}
	}
	return errs
}

// clone returns a deep copy so a Classifier never shares slices with callers.
func (r Rules) clone() Rules {
	out := Rules{
		Categories:   make([]CategoryRule, len(r.Categories)),
		Urgency:      clonePhrases(r.Urgency),
		Budget:       clonePhrases(r.Budget),
		BudgetRanges: make(map[Level]string, len(r.BudgetRanges)),
		UrgencyScore: make(map[Level]float64, len(r.UrgencyScore)),
		Sentiment: SentimentWords{
			Positive: lowerAll(r.Sentiment.Positive),
			Negative: lowerAll(r.Sentiment.Negative),
			Urgent:   lowerAll(r.Sentiment.Urgent),
		},
		Colors:       lowerAll(r.Colors),
		Styles:       lowerAll(r.Styles),
		Deliverables: lowerAll(r.Deliverables),
	}
	for i, c := range r.Categories {
		out.Categories[i] = CategoryRule{
			Name:         c.Name,
			Keywords:     lowerAll(c.Keywords),
			UrgencyWords: lowerAll(c.UrgencyWords),
			Complexity:   c.Complexity,
		}
	}
	for k, v := range r.BudgetRanges {
		out.BudgetRanges[k] = v
	}
	for k, v := range r.UrgencyScore {
		out.UrgencyScore[k] = v
	}
	return out
}

func clonePhrases(in []PhraseRule) []PhraseRule {
	out := make([]PhraseRule, len(in))
	for i, rule := range in {
		out[i] = PhraseRule{Level: rule.Level, Phrases: lowerAll(rule.Phrases)}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

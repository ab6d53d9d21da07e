package classifier

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Classifier analyzes chat messages against a compiled rule set.
type Classifier struct {
	rules   Rules
	weights Weights

	// Compiled once in New; regexp.Regexp is safe for concurrent use.
	colorPatterns     []*regexp.Regexp
	dimensionPatterns []*regexp.Regexp
	revisionPatterns  []*regexp.Regexp
	urgencyPatterns   []*regexp.Regexp
	dollarPattern     *regexp.Regexp
}

// New validates rules and weights and compiles the extraction patterns.
func New(rules Rules, weights Weights) (*Classifier, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}

	c := &Classifier{
		rules:   rules.clone(),
		weights: weights,
	}

	c.colorPatterns = []*regexp.Regexp{
		hexColorPattern,
		rgbColorPattern,
	}
	if len(c.rules.Colors) > 0 {
		names := make([]string, len(c.rules.Colors))
		for i, name := range c.rules.Colors {
			names[i] = regexp.QuoteMeta(name)
		}
		named, err := regexp.Compile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("invalid colour names: %w", err)
		}
		c.colorPatterns = append([]*regexp.Regexp{named}, c.colorPatterns...)
	}

	c.dimensionPatterns = dimensionPatterns
	c.revisionPatterns = revisionPatterns
	c.urgencyPatterns = urgencyFallbackPatterns
	c.dollarPattern = dollarPattern

	return c, nil
}

// MustNew is like New but panics on invalid input. It is meant for the
// built-in defaults.
func MustNew(rules Rules, weights Weights) *Classifier {
	c, err := New(rules, weights)
	if err != nil {
		panic(err)
	}
	return c
}

// Weights returns the confidence weights in use.
func (c *Classifier) Weights() Weights {
	return c.weights
}

// Rules returns a copy of the rule tables in use.
func (c *Classifier) Rules() Rules {
	return c.rules.clone()
}

// Analyze classifies one message. It never fails: text with no signals
// yields a low-confidence, non-request analysis.
func (c *Classifier) Analyze(text string) MessageAnalysis {
	lower := strings.ToLower(text)

	analysis := MessageAnalysis{
		Text:         text,
		Categories:   c.detectCategories(lower),
		Urgency:      c.detectUrgency(text, lower),
		Budget:       c.detectBudget(text, lower),
		Sentiment:    c.analyzeSentiment(lower),
		Requirements: c.extractRequirements(text, lower),
	}
	analysis.Confidence = c.confidence(analysis)
	analysis.IsDesignRequest = analysis.Confidence > c.weights.Threshold

	return analysis
}

// confidence blends the detector outputs into a single score.
func (c *Classifier) confidence(a MessageAnalysis) float64 {
	w := c.weights
	score := 0.0

	if top, ok := a.TopCategory(); ok {
		score += w.Category * (float64(top.MatchCount) / w.CategoryDivisor)
	}

	score += math.Min(w.RequirementCap, w.PerRequirement*float64(a.Requirements.ItemCount()))
	score += w.Urgency * a.Urgency.Score

	if a.Budget.Level != LevelUnknown {
		score += w.Budget
	}

	return math.Max(0, math.Min(1, score))
}

func (c *Classifier) detectCategories(lower string) []CategoryMatch {
	matches := make([]CategoryMatch, 0)
	for _, rule := range c.rules.Categories {
		matched := matchPhrases(lower, rule.Keywords)
		if len(matched) == 0 {
			continue
		}
		matches = append(matches, CategoryMatch{
			Name:            rule.Name,
			MatchCount:      len(matched),
			Complexity:      rule.Complexity,
			MatchedKeywords: matched,
		})
	}

	// Stable sort keeps declaration order for equal counts.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchCount > matches[j].MatchCount
	})
	return matches
}

func (c *Classifier) detectUrgency(text, lower string) Urgency {
	for _, rule := range c.rules.Urgency {
		if matched := matchPhrases(lower, rule.Phrases); len(matched) > 0 {
			return Urgency{
				Level:      rule.Level,
				Indicators: matched,
				Score:      c.rules.UrgencyScore[rule.Level],
			}
		}
	}

	for _, re := range c.urgencyPatterns {
		if m := re.FindString(text); m != "" {
			return Urgency{Level: LevelHigh, Indicators: []string{m}, Score: timeExpressionScore}
		}
	}

	return Urgency{Level: LevelMedium, Indicators: []string{}, Score: defaultUrgencyScore}
}

func (c *Classifier) detectBudget(text, lower string) Budget {
	for _, rule := range c.rules.Budget {
		if matched := matchPhrases(lower, rule.Phrases); len(matched) > 0 {
			return Budget{
				Level:          rule.Level,
				Indicators:     matched,
				EstimatedRange: c.rules.BudgetRanges[rule.Level],
			}
		}
	}

	if m := c.dollarPattern.FindStringSubmatch(text); m != nil {
		amount := normalizeAmount(m[1])
		return Budget{
			Level:          amountLevel(m[1]),
			Indicators:     []string{m[0]},
			EstimatedRange: "$" + amount,
		}
	}

	return Budget{Level: LevelUnknown, Indicators: []string{}, EstimatedRange: "Not specified"}
}

func (c *Classifier) analyzeSentiment(lower string) Sentiment {
	s := Sentiment{
		MatchedPositive: matchPhrases(lower, c.rules.Sentiment.Positive),
		MatchedNegative: matchPhrases(lower, c.rules.Sentiment.Negative),
		MatchedUrgent:   matchPhrases(lower, c.rules.Sentiment.Urgent),
	}

	switch pos, neg := len(s.MatchedPositive), len(s.MatchedNegative); {
	case pos > neg:
		s.Sentiment = SentimentPositive
	case neg > pos:
		s.Sentiment = SentimentNegative
	default:
		s.Sentiment = SentimentNeutral
	}

	switch n := len(s.MatchedUrgent); {
	case n > 2:
		s.UrgencyWordLevel = LevelHigh
	case n > 0:
		s.UrgencyWordLevel = LevelMedium
	default:
		s.UrgencyWordLevel = LevelLow
	}

	return s
}

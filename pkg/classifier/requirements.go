package classifier

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// Score for urgency inferred from a time expression such as "in 2 days".
	timeExpressionScore = 0.8
	// Score when nothing in the message indicates urgency.
	defaultUrgencyScore = 0.5

	lowBudgetBelow  = 25
	highBudgetAbove = 75
)

var (
	hexColorPattern = regexp.MustCompile(`(?i)#[0-9a-f]{6}`)
	rgbColorPattern = regexp.MustCompile(`(?i)rgb\(\s*\d+\s*,\s*\d+\s*,\s*\d+\s*\)`)

	dimensionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*x\s*(\d+)\s*(px|pixels|inches?|in|cm|mm)`),
		regexp.MustCompile(`(?i)(\d+)\s*(width|height|w|h)\s*(\d+)`),
		regexp.MustCompile(`(?i)(square|rectangular|portrait|landscape)`),
	}

	revisionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(revision|revisions|changes|edits)`),
		regexp.MustCompile(`(?i)(unlimited|infinite)\s*(revision|revisions|changes)`),
	}

	urgencyFallbackPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)in (\d+) (hour|day|week)s?`),
		regexp.MustCompile(`(?i)by (tomorrow|today|tonight)`),
		regexp.MustCompile(`(?i)deadline.*(\d+)`),
	}

	dollarPattern = regexp.MustCompile(`\$(\d+)`)
)

func (c *Classifier) extractRequirements(text, lower string) Requirements {
	var colors []string
	for _, re := range c.colorPatterns {
		for _, m := range re.FindAllString(text, -1) {
			colors = append(colors, strings.ToLower(m))
		}
	}

	return Requirements{
		Colors:       dedupe(colors),
		Dimensions:   findAll(text, c.dimensionPatterns),
		Style:        matchPhrases(lower, c.rules.Styles),
		Deliverables: matchPhrases(lower, c.rules.Deliverables),
		Revisions:    findAll(text, c.revisionPatterns),
	}
}

// matchPhrases returns the phrases contained in lower, in table order.
func matchPhrases(lower string, phrases []string) []string {
	matched := make([]string, 0)
	for _, p := range phrases {
		if p != "" && containsPhrase(lower, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// containsPhrase is a substring test, except that a phrase ending in a digit
// must not be followed by another digit ("$5" does not match "$50").
func containsPhrase(s, phrase string) bool {
	if !isDigit(phrase[len(phrase)-1]) {
		return strings.Contains(s, phrase)
	}
	for offset := 0; offset <= len(s)-len(phrase); {
		i := strings.Index(s[offset:], phrase)
		if i < 0 {
			return false
		}
		end := offset + i + len(phrase)
		if end == len(s) || !isDigit(s[end]) {
			return true
		}
		offset += i + 1
	}
	return false
}

func findAll(text string, patterns []*regexp.Regexp) []string {
	out := make([]string, 0)
	for _, re := range patterns {
		out = append(out, re.FindAllString(text, -1)...)
	}
	return out
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// normalizeAmount drops leading zeros from a run of digits.
func normalizeAmount(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

func amountLevel(digits string) Level {
	amount, err := strconv.ParseUint(digits, 10, 64)
	if err != nil {
		// Only overflow can fail here, and that is certainly above the threshold.
		return LevelHigh
	}
	switch {
	case amount < lowBudgetBelow:
		return LevelLow
	case amount > highBudgetAbove:
		return LevelHigh
	default:
		return LevelMedium
	}
}

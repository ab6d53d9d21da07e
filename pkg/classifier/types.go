package classifier

// Level is a coarse low/medium/high rating. Budget detection additionally
// uses LevelUnknown when nothing in the message indicates a budget.
type Level string

const (
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
	LevelUnknown Level = "unknown"
)

// Valid reports whether l is one of the declared levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh, LevelUnknown:
		return true
	}
	return false
}

// Rated reports whether l is low, medium or high.
func (l Level) Rated() bool {
	return l == LevelLow || l == LevelMedium || l == LevelHigh
}

// SentimentLabel is the overall tone of a message.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// MessageAnalysis is the result of classifying one message.
// Every collection is non-nil so callers can rely on a stable shape.
type MessageAnalysis struct {
	// Text is the original message content, unmodified.
	Text string `json:"text" yaml:"text"`

	// Categories are the matched design categories, highest match count first.
	// An empty slice means the message is uncategorized ("general").
	Categories []CategoryMatch `json:"categories" yaml:"categories"`

	Urgency      Urgency      `json:"urgency" yaml:"urgency"`
	Budget       Budget       `json:"budget" yaml:"budget"`
	Sentiment    Sentiment    `json:"sentiment" yaml:"sentiment"`
	Requirements Requirements `json:"requirements" yaml:"requirements"`

	// Confidence is the blended request-likelihood score in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// IsDesignRequest is true iff Confidence exceeds the threshold.
	IsDesignRequest bool `json:"is_design_request" yaml:"is_design_request"`
}

// CategoryMatch describes one matched design category.
type CategoryMatch struct {
	Name            string   `json:"name" yaml:"name"`
	MatchCount      int      `json:"match_count" yaml:"match_count"`
	Complexity      Level    `json:"complexity" yaml:"complexity"`
	MatchedKeywords []string `json:"matched_keywords" yaml:"matched_keywords"`
}

// Urgency describes how soon the work is needed.
type Urgency struct {
	Level      Level    `json:"level" yaml:"level"`
	Indicators []string `json:"indicators" yaml:"indicators"`
	Score      float64  `json:"score" yaml:"score"`
}

// Budget describes the budget signals found in a message.
type Budget struct {
	Level          Level    `json:"level" yaml:"level"`
	Indicators     []string `json:"indicators" yaml:"indicators"`
	EstimatedRange string   `json:"estimated_range" yaml:"estimated_range"`
}

// Sentiment holds word-list sentiment counts.
type Sentiment struct {
	Sentiment        SentimentLabel `json:"sentiment" yaml:"sentiment"`
	UrgencyWordLevel Level          `json:"urgency_word_level" yaml:"urgency_word_level"`
	MatchedPositive  []string       `json:"matched_positive" yaml:"matched_positive"`
	MatchedNegative  []string       `json:"matched_negative" yaml:"matched_negative"`
	MatchedUrgent    []string       `json:"matched_urgent" yaml:"matched_urgent"`
}

// Requirements holds the concrete requirements mentioned in a message.
// Colors, Style and Deliverables are deduplicated; Dimensions and Revisions
// keep every match.
type Requirements struct {
	Colors       []string `json:"colors" yaml:"colors"`
	Dimensions   []string `json:"dimensions" yaml:"dimensions"`
	Style        []string `json:"style" yaml:"style"`
	Deliverables []string `json:"deliverables" yaml:"deliverables"`
	Revisions    []string `json:"revisions" yaml:"revisions"`
}

// ItemCount is the total number of extracted requirement items.
func (r Requirements) ItemCount() int {
	return len(r.Colors) + len(r.Dimensions) + len(r.Style) + len(r.Deliverables) + len(r.Revisions)
}

// TopCategory returns the highest ranked category, if any.
func (a MessageAnalysis) TopCategory() (CategoryMatch, bool) {
	if len(a.Categories) == 0 {
		return CategoryMatch{}, false
	}
	return a.Categories[0], true
}

// CategoryName returns the top category name or "general".
func (a MessageAnalysis) CategoryName() string {
	if top, ok := a.TopCategory(); ok {
		return top.Name
	}
	return "general"
}

// Package classifier decides whether a chat message is asking for graphic
// design work and extracts the request details.
//
// The classifier is a fixed set of independent keyword and pattern rules:
//
//   - Category detection: keyword counts per design category (logo, social
//     media, print, web, packaging), ordered by match count
//   - Urgency detection: phrase tables plus time-expression fallbacks
//   - Budget detection: phrase tables plus a literal dollar amount fallback
//   - Sentiment: positive, negative and urgent word counts
//   - Requirement extraction: colours, dimensions, style, deliverables, revisions
//
// A weighted sum of those signals gives a confidence score in [0,1]; a message
// is a design request when the score exceeds the configured threshold.
//
// # Usage
//
//	c, err := classifier.New(classifier.DefaultRules(), classifier.DefaultWeights())
//	if err != nil {
//		return err
//	}
//
//	analysis := c.Analyze("I need a logo design, budget $50, needed asap")
//	if analysis.IsDesignRequest {
//		fmt.Print(classifier.Report(analysis))
//	}
//
// # Concurrency
//
// Rules are compiled once by New and never mutated afterwards. Analyze touches
// no shared mutable state, so a single Classifier can be used from any number
// of goroutines.
package classifier

package generator

import (
	"context"
	"time"

	"palette-hq/scout/pkg/classifier"

	"golang.org/x/time/rate"
)

// BatchRequest is one item of a batch brief run.
type BatchRequest struct {
	ID       string                      `json:"id"`
	Prompt   string                      `json:"prompt"`
	Analysis *classifier.MessageAnalysis `json:"analysis,omitempty"`
}

// BatchResult is the outcome of one batch item.
type BatchResult struct {
	ID        string    `json:"id"`
	Success   bool      `json:"success"`
	Brief     string    `json:"brief,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BatchProcess generates a brief for each request in order, waiting the
// configured batch delay between calls. A failed item is reported in its
// result and the batch continues. Once ctx is done, the remaining items fail
// with the context error.
func (c *Client) BatchProcess(ctx context.Context, requests []BatchRequest) []BatchResult {
	return c.BatchProcessFunc(ctx, requests, nil)
}

// BatchProcessFunc is BatchProcess with a callback invoked after each item,
// in order. onResult may be nil.
func (c *Client) BatchProcessFunc(ctx context.Context, requests []BatchRequest, onResult func(BatchResult)) []BatchResult {
	results := make([]BatchResult, 0, len(requests))
	limiter := rate.NewLimiter(rate.Every(c.gen.BatchDelay), 1)

	for _, req := range requests {
		result := BatchResult{ID: req.ID}

		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				err = ctx.Err()
			}
			result.Error = err.Error()
			result.Timestamp = time.Now().UTC()
			results = append(results, result)
			if onResult != nil {
				onResult(result)
			}
			continue
		}

		brief, err := c.GenerateBrief(ctx, req.Prompt, req.Analysis)
		result.Timestamp = time.Now().UTC()
		if err != nil {
			result.Error = err.Error()
			c.logger.Warn("Batch item failed", "id", req.ID, "error", err)
		} else {
			result.Success = true
			result.Brief = brief
		}
		results = append(results, result)
		if onResult != nil {
			onResult(result)
		}
	}

	return results
}

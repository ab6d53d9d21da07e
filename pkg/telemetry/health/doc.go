// Package health runs readiness checks for Scout's components.
//
// Each component registers a CheckFunc under a name. Check runs them
// concurrently, each bounded by the checker's timeout, and reports the
// overall status as "ready" or "degraded":
//
//	checker := health.New(2 * time.Second)
//	checker.Register("history", func(ctx context.Context) error {
//	    _, err := store.Count(ctx, &history.Query{})
//	    return err
//	})
//	report := checker.Check(ctx)
//
// The HTTP server exposes the report on GET /health/ready.
package health

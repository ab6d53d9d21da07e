// Package server provides the scout HTTP API.
//
// # Endpoints
//
//	POST /v1/analyze                classify a message and record it
//	POST /v1/report                 classify and render the text report
//	POST /v1/brief                  generate a design brief with Gemini
//	POST /v1/mockup                 build a mockup with specs, or variations
//	GET  /v1/designs                list generated designs
//	GET  /v1/designs/{id}/export    export the specs of one design
//	POST /v1/images/analyze         analyze a reference image
//	GET  /v1/history                query analysis history
//	GET  /v1/history/{id}           fetch one history record
//	GET  /health                    liveness with rule status
//	GET  /health/ready              readiness of rules and history
//	GET  /metrics                   Prometheus metrics, when enabled
//
// Errors share one body shape:
//
//	{"error": {"message": "text is required", "type": "invalid_request_error"}}
//
// Generation endpoints answer 503 when no Gemini key is configured. Upstream
// rate limits map to 429 and upstream timeouts to 504.
//
// # Usage
//
//	srv, err := server.New(cfg.Server, cfg.Telemetry.Metrics, server.Deps{
//	    Rules:    rules,
//	    Designs:  designs,
//	    History:  store,
//	    Recorder: rec,
//	    Metrics:  collector,
//	    Query:    cfg.History.Query,
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx)
//
// Start blocks until ctx is done and then shuts down gracefully, waiting up to
// ShutdownTimeout for requests in flight.
package server

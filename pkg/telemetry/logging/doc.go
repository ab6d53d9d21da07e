// Package logging provides structured logging with secret redaction.
//
// The package wraps log/slog and adds:
//   - JSON, text and console output formats
//   - Redaction of Gemini API keys, bearer tokens, key= query parameters,
//     emails and password fields
//   - Context fields (request_id, message_id, channel, operation)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	logger.Info("brief generated",
//	    "model", "gemini-2.0-flash-exp",
//	    "api_key", key, // masked
//	)
//
//	ctx = logging.WithMessageID(ctx, msg.ID)
//	logger.InfoContext(ctx, "classified") // includes message_id
//
// Slog returns a *slog.Logger with the same redaction for packages that take
// the standard type.
package logging

// Package logging builds the process logger on top of log/slog.
//
// # Overview
//
//   - JSON or text output at a configurable level
//   - Request IDs and provider names carried in the context and attached to
//     every record logged with a *Context method
//   - Redaction of API keys and bearer tokens in attribute values
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "request processed", "duration_ms", 12)
//	// {"level":"INFO","msg":"request processed","duration_ms":12,"request_id":"req-123"}
//
// Submitted code is never logged.
package logging

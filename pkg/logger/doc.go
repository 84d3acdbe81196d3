// Package logger builds the *slog.Logger used across the two-factor
// subsystem.
//
// New applies functional options (format, level, output, static attributes,
// context extractors) and wraps the handler in LogHandlerDecorator, which
// injects request scoped values taken from context.Context on every record.
// NewFromConfig does the same from environment driven Config.
//
// Attribute helpers in attr.go keep key names consistent. AccountID and Step
// are the keys used by two-factor events; there is intentionally no helper
// for secrets or codes, which must never be logged.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "admin-2fa"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "two-factor enrollment started",
//	    logger.AccountID("admin-42"),
//	)
package logger

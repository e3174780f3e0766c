// Package logger builds the service's structured logger on log/slog.
//
// Records are written as JSON to stdout. Context extractors add request-scoped
// attributes, such as the HTTP request ID, to every record logged with a context:
//
//	log, err := logger.NewFromConfig(cfg.Log, httpapi.RequestIDExtractor())
//	log.InfoContext(r.Context(), "reminder delivered", slog.String("to", to))
//	// {"level":"INFO","msg":"reminder delivered","to":"a@x.com","request_id":"..."}
//
// When SENTRY_DSN is set, records are also sent to Sentry: errors become issues and
// warnings are stored as logs. Without a DSN, or when Sentry fails to initialize,
// logging continues on stdout only. Register FlushSentry as a shutdown hook so
// buffered events are not lost on exit.
package logger

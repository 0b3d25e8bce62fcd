// Package logging provides a minimal logging facade for the key material
// library.
//
// The Logger interface wraps a subset of log/slog so applications can plug in
// their own implementation for testing or redaction policies. Key material is
// never logged directly; sensitive attributes go through Redacted.
//
//	logger := logging.New(nil) // slog.Default()
//	logger.Debug(ctx, "import key", "format", "pkcs8", logging.Redacted("key_data"))
package logging

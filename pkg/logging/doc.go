// Package logging provides structured logging configuration for pokedex.
//
// It wraps log/slog with a small Config (level, format, output) so every
// component logs the same way. Components accept a *slog.Logger in their
// constructor and fall back to Nop when none is given.
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("loaded pokemon", "count", 151)
//
// Request handlers receive a per-request logger through the context
// (WithContext / FromContext); the engine middleware attaches one carrying
// the request id.
package logging

// Syllabus - Media Discovery and Rating Enrichment
// Copyright 2026 kunw4r
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kunw4r/syllabus

// Package logging wraps a global zerolog logger shared by the server and the
// enrichjob command.
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Warn().Err(err).Str("source", "omdb").Msg("Lookup failed")
//
// Enrichment runs and HTTP requests carry a correlation ID and a request ID
// in their context; Ctx adds both to every line:
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Info().Int("batch", 3).Msg("Batch complete")
//
// Long-lived components tag their lines with WithComponent("seed") and
// friends. NewSlogLogger bridges to log/slog for sutureslog.
//
// LOG_LEVEL, LOG_FORMAT (json or console) and LOG_CALLER are read through
// the config package.
package logging

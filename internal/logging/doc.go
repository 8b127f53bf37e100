// Package logging wraps log/slog with the handlers and attribute helpers used
// across karagen: a compact console handler for interactive runs, a JSON
// handler for machine consumption, and context-derived entry/stage fields.
package logging

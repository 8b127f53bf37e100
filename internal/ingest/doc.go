// Package ingest implements the ingestion orchestrator: an explicit state
// machine that validates an incoming entry, stages its files, normalizes
// subtitles, reconciles identities, derives filenames, transcodes and probes
// media, and persists the result. Every state after staging has a
// compensation; a failed run leaves no orphaned files behind.
package ingest

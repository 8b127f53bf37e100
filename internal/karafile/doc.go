// Package karafile reads and writes the versioned on-disk formats of the
// catalog: tag identity files, series identity files, and catalog entry
// files (current format plus the legacy flat mirror). Serialization is
// deterministic, so rewriting unchanged data yields byte-identical files.
package karafile

// Package catalog defines the data model for karaoke catalog entries: the
// Entry record moving through ingestion, tag and series identity records, the
// closed category enumeration with its persisted codes and labels, and the
// fixed auto-derivation rules that widen an entry's categories before
// reconciliation.
package catalog

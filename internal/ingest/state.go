package ingest

// State names a position in the ingestion pipeline. Committed and RolledBack
// are terminal; every state after Staged has a rollback edge that unwinds the
// staged copies before the error propagates.
type State string

const (
	StateReceived           State = "received"
	StateValidated          State = "validated"
	StateStaged             State = "staged"
	StateSubtitleNormalized State = "subtitle_normalized"
	StateReconciled         State = "reconciled"
	StateNamed              State = "named"
	StateTranscoded         State = "transcoded"
	StateWritten            State = "written"
	StateCommitted          State = "committed"
	StateRolledBack         State = "rolled_back"
)

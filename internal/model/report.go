package model

// PlannedMove describes one file the orchestrator moved (or, in dry-run
// mode, would move) and why.
type PlannedMove struct {
	Entry       FileEntry
	Destination string
	Result      ClassificationResult
}

// SkippedFile records a per-file failure that did not abort the run.
type SkippedFile struct {
	Path   string
	Reason string
}

// OrganizeReport is the outcome of one organize run.
type OrganizeReport struct {
	CategoryCounts map[string]int
	Planned        []PlannedMove
	Skipped        []SkippedFile
	SessionID      int64
	Moved          int
	DryRun         bool
}

// UndoResult is the outcome of reversing a single move record.
type UndoResult struct {
	Record MoveRecord
	Reason string
	OK     bool
}

// UndoReport is the per-record outcome of undoing a session.
type UndoReport struct {
	Results   []UndoResult
	SessionID int64
	Status    SessionStatus
	Restored  int
	Failed    int
}

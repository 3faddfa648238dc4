package recorder

import "time"

// RunRecord is one aggregation run's audit entry. Market snapshots are
// deliberately not persisted; only operational facts about the run are.
type RunRecord struct {
	Mode        string // "complete" or "quick"
	Stocks      int
	SuccessDays int // trading days with institutional data
	Bullish     int
	Neutral     int
	Bearish     int
	Duration    time.Duration
}

// Recorder persists run history for operational analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}

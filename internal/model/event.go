package model

import "time"

// FiredEvent is a single rule match emitted by the Falco rule engine.
type FiredEvent struct {
	Time     time.Time // fired-at, truncated to whole seconds
	Rule     string
	Output   string // free text, escaped before rendering
	Priority string
}

// TimeInterval is a completed job step with inclusive bounds.
type TimeInterval struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls within [Start, End].
func (i TimeInterval) Contains(ts time.Time) bool {
	return !ts.Before(i.Start) && !ts.After(i.End)
}

// Connection is one data line of a sysdig connection capture report.
type Connection struct {
	Bytes      string // not validated as numeric
	Proto      string
	Connection string
}

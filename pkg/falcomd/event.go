package falcomd

import "time"

// Event is a fired rule event with the job steps that were running when
// it fired. This is the stable public type.
type Event struct {
	Time     time.Time `json:"time"`
	Rule     string    `json:"rule"`
	Output   string    `json:"output"`
	Priority string    `json:"priority"`
	Steps    []string  `json:"steps,omitempty"` // empty when no step matched
}

// Step is a completed job step.
type Step struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

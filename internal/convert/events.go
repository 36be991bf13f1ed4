// Package convert turns each supported input format into a markdown.Table.
package convert

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/model"
	"github.com/hejijunhao/falcomd/internal/timeline"
)

// NoStep is shown when an event falls outside every known step.
const NoStep = "N/A"

// EventTimeLayout renders fired-at times as "2024-01-01 00:00:01+00:00".
const EventTimeLayout = "2006-01-02 15:04:05-07:00"

var eventHeader = []string{"Timestamp", "Step", "Rule", "Output", "Priority"}

type eventRecord struct {
	Time     *string `json:"time"`
	Rule     *string `json:"rule"`
	Output   *string `json:"output"`
	Priority *string `json:"priority"`
}

// ParseEvent decodes one Falco JSON line. All of time, rule, output and
// priority are required.
func ParseEvent(line []byte) (model.FiredEvent, error) {
	var rec eventRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return model.FiredEvent{}, errors.Wrap(err, "parse event JSON")
	}
	required := []struct {
		name string
		v    *string
	}{
		{"time", rec.Time}, {"rule", rec.Rule}, {"output", rec.Output}, {"priority", rec.Priority},
	}
	for _, f := range required {
		if f.v == nil {
			return model.FiredEvent{}, errors.Errorf("event is missing %q", f.name)
		}
	}
	ts, err := ParseEventTime(*rec.Time)
	if err != nil {
		return model.FiredEvent{}, err
	}
	return model.FiredEvent{
		Time:     ts,
		Rule:     *rec.Rule,
		Output:   *rec.Output,
		Priority: *rec.Priority,
	}, nil
}

// ParseEventTime parses a Falco timestamp. Fractional seconds are
// dropped, since step timestamps only have second granularity. A missing
// zone is read as UTC.
func ParseEventTime(s string) (time.Time, error) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		j := i + 1
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		s = s[:i] + s[j:]
	}
	if len(s) == len("2006-01-02T15:04:05") {
		s += "Z"
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse event time %q", s)
	}
	return ts.UTC(), nil
}

// ReadEvents reads Falco NDJSON events in input order. Any malformed or
// incomplete event aborts with a fatal error.
func ReadEvents(source string, r io.Reader) ([]model.FiredEvent, error) {
	var events []model.FiredEvent
	err := ingest.Lines(r, func(n int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		ev, err := ParseEvent([]byte(line))
		if err != nil {
			return ingest.FatalAt(source, n, err)
		}
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Events reads Falco NDJSON events and builds the step-correlated table.
func Events(source string, r io.Reader, tl *timeline.Timeline) (*markdown.Table, error) {
	events, err := ReadEvents(source, r)
	if err != nil {
		return nil, err
	}
	tbl := markdown.NewTable(eventHeader...)
	for _, ev := range events {
		tbl.Append(EventRow(ev, tl.StepsAt(ev.Time))...)
	}
	return tbl, nil
}

// EventRow maps an event and its matching steps to display cells.
func EventRow(ev model.FiredEvent, steps []string) []string {
	step := NoStep
	if len(steps) > 0 {
		step = strings.Join(steps, ", ")
	}
	return []string{
		ev.Time.Format(EventTimeLayout),
		step,
		ev.Rule,
		markdown.Escape(ev.Output),
		ev.Priority,
	}
}

// Package timeline builds the set of completed CI job steps and correlates
// fired events against it.
package timeline

import (
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pkg/errors"

	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/model"
)

const statusCompleted = "completed"

// Timeline is the unordered set of completed steps.
type Timeline struct {
	Intervals []model.TimeInterval
	// Skipped holds the completed steps that could not be parsed.
	Skipped []*ingest.LineError
}

type stepRecord struct {
	Status      *string `json:"status"`
	Name        *string `json:"name"`
	StartedAt   *string `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
}

// Build reads NDJSON job records from r. A line that is not a JSON object
// aborts with a fatal *ingest.LineError. Records that are not completed
// steps are ignored, and completed steps that fail to parse are logged and
// collected in Skipped.
func Build(source string, r io.Reader) (*Timeline, error) {
	tl := &Timeline{}
	err := ingest.Lines(r, func(n int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return ingest.FatalAt(source, n, errors.Wrap(err, "parse timeline JSON"))
		}
		iv, ok, err := parseStep(obj["steps"])
		if err != nil {
			le := ingest.RecoverableAt(source, n, err)
			slog.Warn("skipping timeline entry", "source", source, "line", n, "error", err)
			tl.Skipped = append(tl.Skipped, le)
			return nil
		}
		if ok {
			tl.Intervals = append(tl.Intervals, iv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("timeline built", "source", source, "steps", len(tl.Intervals), "skipped", len(tl.Skipped))
	return tl, nil
}

// parseStep returns ok=false for records that are not completed steps.
func parseStep(raw json.RawMessage) (model.TimeInterval, bool, error) {
	var iv model.TimeInterval
	if len(raw) == 0 {
		return iv, false, nil
	}
	var step stepRecord
	if err := json.Unmarshal(raw, &step); err != nil {
		// Not an object; there is no status to check.
		return iv, false, nil
	}
	if step.Status == nil || *step.Status != statusCompleted {
		return iv, false, nil
	}
	if step.Name == nil {
		return iv, false, errors.New("completed step has no name")
	}
	if step.StartedAt == nil || step.CompletedAt == nil {
		return iv, false, errors.Errorf("step %q is missing timestamps", *step.Name)
	}
	start, err := ParseTimestamp(*step.StartedAt)
	if err != nil {
		return iv, false, errors.Wrapf(err, "step %q started_at", *step.Name)
	}
	end, err := ParseTimestamp(*step.CompletedAt)
	if err != nil {
		return iv, false, errors.Wrapf(err, "step %q completed_at", *step.Name)
	}
	return model.TimeInterval{Name: *step.Name, Start: start, End: end}, true, nil
}

// ParseTimestamp parses an RFC 3339 timestamp, accepting a trailing Z,
// and falls back to looser formats. The result is in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse timestamp %q", s)
	}
	return ts.UTC(), nil
}

// Correlate returns the names of all intervals containing ts, bounds
// inclusive, in iteration order.
func Correlate(ts time.Time, intervals []model.TimeInterval) []string {
	var names []string
	for _, iv := range intervals {
		if iv.Contains(ts) {
			names = append(names, iv.Name)
		}
	}
	return names
}

// StepsAt is Correlate over the timeline's intervals.
func (t *Timeline) StepsAt(ts time.Time) []string {
	if t == nil {
		return nil
	}
	return Correlate(ts, t.Intervals)
}

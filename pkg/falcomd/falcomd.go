package falcomd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hejijunhao/falcomd/internal/connector/openai"
	"github.com/hejijunhao/falcomd/internal/connector/virustotal"
	"github.com/hejijunhao/falcomd/internal/convert"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/reputation"
	"github.com/hejijunhao/falcomd/internal/summarize"
	"github.com/hejijunhao/falcomd/internal/timeline"
)

// ErrNotConfigured is returned by Reputation and Summarize when the
// corresponding API key was not supplied.
var ErrNotConfigured = errors.New("falcomd: service not configured")

// Falcomd converts telemetry and drives the external lookups.
type Falcomd struct {
	opts       options
	reputation *reputation.Service
	summarizer *summarize.Summarizer
}

// New creates a Falcomd. Reputation and summaries are only available when
// their keys are configured.
func New(opts ...Option) *Falcomd {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	f := &Falcomd{opts: o}
	if o.vtKey != "" {
		f.reputation = reputation.NewService(
			virustotal.New(o.vtURL, o.vtKey),
			reputation.WithRatePerMinute(o.vtRate),
		)
	}
	if o.openAIKey != "" {
		client := openai.New(o.openAIURL, o.openAIKey, openai.WithAttempts(o.summaryTries))
		f.summarizer = summarize.New(client, o.model)
	}
	return f
}

// Steps reads a job-step timeline. Steps that are not completed are
// dropped; completed steps with bad timestamps are skipped.
func Steps(r io.Reader) ([]Step, error) {
	tl, err := timeline.Build("timeline", r)
	if err != nil {
		return nil, fmt.Errorf("falcomd: %w", err)
	}
	steps := make([]Step, len(tl.Intervals))
	for i, iv := range tl.Intervals {
		steps[i] = Step{Name: iv.Name, Start: iv.Start, End: iv.End}
	}
	return steps, nil
}

// Events reads fired rule events and correlates each with the steps of
// the timeline. A nil timeline leaves every event without steps.
func (f *Falcomd) Events(events, steps io.Reader) ([]Event, error) {
	tl, err := buildTimeline(steps)
	if err != nil {
		return nil, err
	}
	fired, err := convert.ReadEvents("events", events)
	if err != nil {
		return nil, fmt.Errorf("falcomd: %w", err)
	}
	out := make([]Event, len(fired))
	for i, ev := range fired {
		out[i] = Event{
			Time:     ev.Time,
			Rule:     ev.Rule,
			Output:   ev.Output,
			Priority: ev.Priority,
			Steps:    tl.StepsAt(ev.Time),
		}
	}
	return out, nil
}

// EventsMarkdown renders fired rule events as a step-correlated table.
func (f *Falcomd) EventsMarkdown(events, steps io.Reader) (string, error) {
	tl, err := buildTimeline(steps)
	if err != nil {
		return "", err
	}
	tbl, err := convert.Events("events", events, tl)
	if err != nil {
		return "", fmt.Errorf("falcomd: %w", err)
	}
	return render(tbl, markdown.Fixed)
}

// CaptureMarkdown renders columnar connection capture text as a
// fixed-width table.
func (f *Falcomd) CaptureMarkdown(r io.Reader) (string, error) {
	tbl, err := convert.Capture(r)
	if err != nil {
		return "", fmt.Errorf("falcomd: %w", err)
	}
	return render(tbl, markdown.Fixed)
}

// JSONTableMarkdown renders NDJSON records as a table keyed by the first
// record, in the configured style.
func (f *Falcomd) JSONTableMarkdown(r io.Reader) (string, error) {
	tbl, err := convert.JSONTable("input", r)
	if err != nil {
		return "", fmt.Errorf("falcomd: %w", err)
	}
	return render(tbl, f.opts.style)
}

// Reputation returns "Clean", "Suspicious" or "Unknown" for an IP address
// (mode "ips") or file hash (mode "hashes"). Verdicts are cached for the
// life of f.
func (f *Falcomd) Reputation(ctx context.Context, mode, indicator string) (string, error) {
	if f.reputation == nil {
		return "", ErrNotConfigured
	}
	m, err := reputation.ParseMode(mode)
	if err != nil {
		return "", fmt.Errorf("falcomd: %w", err)
	}
	return string(f.reputation.Reputation(ctx, m, indicator)), nil
}

// Summarize asks the chat model for a threat summary of a Markdown report.
// It returns "" when no attempt produced a summary.
func (f *Falcomd) Summarize(ctx context.Context, report, userInput string) (string, error) {
	if f.summarizer == nil {
		return "", ErrNotConfigured
	}
	if strings.TrimSpace(report) == "" {
		return "", errors.New("falcomd: empty report")
	}
	return f.summarizer.Summarize(ctx, report, userInput), nil
}

func buildTimeline(r io.Reader) (*timeline.Timeline, error) {
	if r == nil {
		return nil, nil
	}
	tl, err := timeline.Build("timeline", r)
	if err != nil {
		return nil, fmt.Errorf("falcomd: %w", err)
	}
	return tl, nil
}

func render(tbl *markdown.Table, style markdown.Style) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Render(&buf, tbl, style); err != nil {
		return "", fmt.Errorf("falcomd: %w", err)
	}
	return buf.String(), nil
}

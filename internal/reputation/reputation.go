// Package reputation classifies indicators (IPs, file hashes) using an
// external lookup and remembers each verdict for the rest of the run.
package reputation

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// Mode selects which kind of indicator is looked up.
type Mode string

const (
	ModeIPs    Mode = "ips"
	ModeHashes Mode = "hashes"
)

// ParseMode validates a --mode value.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeIPs, ModeHashes:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown reputation mode %q (want %q or %q)", s, ModeIPs, ModeHashes)
}

// Field is the record key holding the indicator for this mode.
func (m Mode) Field() string {
	if m == ModeHashes {
		return "sha256"
	}
	return "fd.sip"
}

// Label is a reputation verdict.
type Label string

const (
	Clean      Label = "Clean"
	Suspicious Label = "Suspicious"
	Unknown    Label = "Unknown"
)

// Threshold is the engine count at which an indicator stops being clean.
const Threshold = 3

// Stats are the analysis counts returned by a lookup. A nil count means
// the service did not report it.
type Stats struct {
	Malicious  *int
	Suspicious *int
}

// Looker performs one external lookup.
type Looker interface {
	Lookup(ctx context.Context, mode Mode, indicator string) (Stats, error)
}

// Classify maps a lookup result to a label.
func Classify(stats Stats, err error) Label {
	if err != nil || stats.Malicious == nil || stats.Suspicious == nil {
		return Unknown
	}
	if *stats.Malicious < Threshold && *stats.Suspicious < Threshold {
		return Clean
	}
	return Suspicious
}

// Cache maps raw indicator strings to labels for one run.
type Cache map[string]Label

// Service resolves indicator labels, looking each one up at most once.
// It is not safe for concurrent use.
type Service struct {
	looker  Looker
	cache   Cache
	limiter *rate.Limiter
}

// Option configures a Service.
type Option func(*Service)

// WithRatePerMinute paces outbound lookups. n <= 0 disables pacing.
func WithRatePerMinute(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(float64(n)/60), 1)
		}
	}
}

// NewService creates a Service with an empty cache.
func NewService(looker Looker, opts ...Option) *Service {
	s := &Service{
		looker:  looker,
		cache:   make(Cache),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reputation returns the label for indicator. Failures degrade to
// Unknown and are cached like any other verdict.
func (s *Service) Reputation(ctx context.Context, mode Mode, indicator string) Label {
	if label, ok := s.cache[indicator]; ok {
		return label
	}
	if err := s.limiter.Wait(ctx); err != nil {
		slog.Warn("reputation lookup not attempted", "indicator", indicator, "error", err)
		return Unknown
	}

	stats, err := s.looker.Lookup(ctx, mode, indicator)
	if err != nil {
		slog.Warn("reputation lookup failed", "mode", mode, "indicator", indicator, "error", err)
	}
	label := Classify(stats, err)
	s.cache[indicator] = label
	slog.Debug("reputation resolved", "indicator", indicator, "label", label)
	return label
}

// Cached returns the number of distinct indicators resolved so far.
func (s *Service) Cached() int {
	return len(s.cache)
}

package falcomd

import "github.com/hejijunhao/falcomd/internal/markdown"

type options struct {
	style        markdown.Style
	vtKey        string
	vtURL        string
	vtRate       int
	openAIKey    string
	openAIURL    string
	model        string
	summaryTries int
}

// Option configures a Falcomd instance.
type Option func(*options)

// WithStyle sets the table style for JSONTable: "dynamic" or "aligned".
// Unknown names, and "fixed", keep the default, "dynamic".
func WithStyle(name string) Option {
	return func(o *options) {
		if s, err := markdown.ParseStyle(name); err == nil && s != markdown.Fixed {
			o.style = s
		}
	}
}

// WithVirusTotal enables reputation lookups. An empty baseURL selects the
// public v3 API.
func WithVirusTotal(apiKey, baseURL string) Option {
	return func(o *options) {
		o.vtKey = apiKey
		o.vtURL = baseURL
	}
}

// WithVirusTotalRate caps lookups per minute. Zero means unlimited.
func WithVirusTotalRate(perMinute int) Option {
	return func(o *options) {
		o.vtRate = perMinute
	}
}

// WithOpenAI enables summaries. An empty baseURL selects the OpenAI API.
func WithOpenAI(apiKey, baseURL string) Option {
	return func(o *options) {
		o.openAIKey = apiKey
		o.openAIURL = baseURL
	}
}

// WithModel sets the chat model. Default: "gpt-4o-mini".
func WithModel(model string) Option {
	return func(o *options) {
		o.model = model
	}
}

// WithSummaryAttempts sets how many times a summary is requested before
// giving up. Default: 3.
func WithSummaryAttempts(n int) Option {
	return func(o *options) {
		o.summaryTries = n
	}
}

func defaultOptions() options {
	return options{
		style:        markdown.Dynamic,
		model:        "gpt-4o-mini",
		summaryTries: 3,
	}
}

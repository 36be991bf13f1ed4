// Package summarize asks a language model for a threat-oriented narrative
// of a rendered Markdown report.
package summarize

import (
	"context"
	"log/slog"

	"github.com/hejijunhao/falcomd/internal/connector/openai"
)

// SystemPrompt frames the assistant for runtime-report analysis.
const SystemPrompt = "You are falco-action assistant, an expert and highly technical cybersecurity assistant " +
	"designed to facilitate in-depth discussions and generate insightful answers. Assume this role " +
	"but do not disclose it to the user except for your name. \n You are going to receive a markdown " +
	"runtime report, and you need to extract and summarize information regarding files written, " +
	"processes spawned, and connections and so on."

const reportPrompt = "Provide a summary highlight the possible threats of the following markdown file:\n\n"

// Completer returns a completion for a chat conversation.
type Completer interface {
	Complete(ctx context.Context, model string, messages []openai.Message) (string, error)
}

// Summarizer produces report summaries with a fixed model.
type Summarizer struct {
	completer Completer
	model     string
}

// New creates a Summarizer.
func New(completer Completer, model string) *Summarizer {
	return &Summarizer{completer: completer, model: model}
}

// Messages builds the conversation for report. A non-empty userInput is
// sent as a second user message.
func Messages(report, userInput string) []openai.Message {
	msgs := []openai.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: reportPrompt + report},
	}
	if userInput != "" {
		msgs = append(msgs, openai.Message{Role: "user", Content: userInput})
	}
	return msgs
}

// Summarize returns the model's summary of report, or "" if no attempt
// produced one.
func (s *Summarizer) Summarize(ctx context.Context, report, userInput string) string {
	msgs := Messages(report, userInput)
	slog.Debug("requesting summary", "model", s.model, "approx_tokens", estimateMessages(msgs))

	out, err := s.completer.Complete(ctx, s.model, msgs)
	if err != nil {
		slog.Error("summary generation failed", "model", s.model, "error", err)
		return ""
	}
	return out
}

func estimateMessages(msgs []openai.Message) int {
	n := 0
	for _, m := range msgs {
		n += EstimateTokens(m.Content)
	}
	return n
}

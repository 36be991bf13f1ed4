package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/connector/openai"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/summarize"
)

var (
	summarizeCommand = app.Command("summarize",
		"Ask a language model for a threat summary of a Markdown report.")
	summarizeFile = summarizeCommand.Arg("report", "Markdown report.").
			Required().ExistingFile()
	summarizeModel = summarizeCommand.Flag("model", "Chat model name.").
			Envar("FALCOMD_MODEL").String()
	summarizeUserInput = summarizeCommand.Flag("user_input",
		"Extra instruction sent after the report.").String()
)

func doSummarize(ctx context.Context, cfg config.Config) {
	if *summarizeModel != "" {
		cfg.OpenAI.Model = *summarizeModel
	}
	app.FatalIfError(cfg.ValidateSummarize(), "summarize")

	f, err := ingest.Open(*summarizeFile)
	app.FatalIfError(err, "summarize")
	defer f.Close()

	data, err := io.ReadAll(f)
	app.FatalIfError(err, "read report")
	report := string(data)
	if strings.TrimSpace(report) == "" {
		app.Fatalf("report %s is empty", *summarizeFile)
	}

	client := openai.New(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey,
		openai.WithTimeout(cfg.HTTPTimeout))
	summary := summarize.New(client, cfg.OpenAI.Model).
		Summarize(ctx, report, *summarizeUserInput)
	if summary == "" {
		slog.Warn("no summary produced", "report", *summarizeFile)
		return
	}
	emit(ctx, cfg, summary+"\n")
}

func init() {
	commandHandlers = append(commandHandlers, func(ctx context.Context, cfg config.Config, command string) bool {
		if command != summarizeCommand.FullCommand() {
			return false
		}
		doSummarize(ctx, cfg)
		return true
	})
}

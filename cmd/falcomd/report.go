package main

import (
	"bytes"
	"context"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/report"
)

var (
	reportCommand = app.Command("report",
		"Combine NDJSON files into one titled summary document.")
	reportFiles = reportCommand.Arg("files", "NDJSON files; missing or empty ones are skipped.").
			Required().Strings()
	reportFormat = reportCommand.Flag("format", "Document format.").
			Default("markdown").Enum("markdown", "html")
)

func doReport(ctx context.Context, cfg config.Config) {
	rep, err := report.Collect(*reportFiles)
	app.FatalIfError(err, "report")

	var buf bytes.Buffer
	if *reportFormat == "html" {
		err = rep.HTML(&buf)
	} else {
		err = rep.Markdown(&buf)
	}
	app.FatalIfError(err, "render report")
	emit(ctx, cfg, buf.String())
}

func init() {
	commandHandlers = append(commandHandlers, func(ctx context.Context, cfg config.Config, command string) bool {
		if command != reportCommand.FullCommand() {
			return false
		}
		doReport(ctx, cfg)
		return true
	})
}

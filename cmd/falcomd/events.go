package main

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/convert"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/timeline"
)

var (
	eventsCommand = app.Command("events",
		"Render fired rule events as a table correlated with job steps.")
	eventsFile = eventsCommand.Arg("file", "NDJSON file of fired events.").
			Required().ExistingFile()
	eventsTimeline = eventsCommand.Arg("timeline", "NDJSON file of job steps.").
			Required().ExistingFile()
)

func doEvents(ctx context.Context, cfg config.Config) {
	tf, err := ingest.Open(*eventsTimeline)
	app.FatalIfError(err, "timeline")
	defer tf.Close()

	tl, err := timeline.Build(*eventsTimeline, tf)
	app.FatalIfError(err, "timeline")
	if len(tl.Skipped) > 0 {
		slog.Warn("timeline steps skipped", "count", len(tl.Skipped))
	}

	ef, err := ingest.Open(*eventsFile)
	app.FatalIfError(err, "events")
	defer ef.Close()

	tbl, err := convert.Events(*eventsFile, ef, tl)
	app.FatalIfError(err, "events")

	var buf bytes.Buffer
	app.FatalIfError(markdown.Render(&buf, tbl, markdown.Fixed), "render")
	emit(ctx, cfg, buf.String())
}

func init() {
	commandHandlers = append(commandHandlers, func(ctx context.Context, cfg config.Config, command string) bool {
		if command != eventsCommand.FullCommand() {
			return false
		}
		doEvents(ctx, cfg)
		return true
	})
}

package main

import (
	"bytes"
	"context"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/convert"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
)

var (
	captureCommand = app.Command("capture",
		"Render a columnar connection capture as a fixed-width table.")
	captureFile = captureCommand.Arg("file", "Capture text output.").
			Required().ExistingFile()
)

func doCapture(ctx context.Context, cfg config.Config) {
	f, err := ingest.Open(*captureFile)
	app.FatalIfError(err, "capture")
	defer f.Close()

	tbl, err := convert.Capture(f)
	app.FatalIfError(err, "capture")

	var buf bytes.Buffer
	app.FatalIfError(markdown.Render(&buf, tbl, markdown.Fixed), "render")
	emit(ctx, cfg, buf.String())
}

func init() {
	commandHandlers = append(commandHandlers, func(ctx context.Context, cfg config.Config, command string) bool {
		if command != captureCommand.FullCommand() {
			return false
		}
		doCapture(ctx, cfg)
		return true
	})
}

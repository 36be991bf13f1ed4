package main

import (
	"bytes"
	"context"

	"github.com/pkg/errors"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/convert"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
)

var (
	jsontableCommand = app.Command("jsontable",
		"Render an NDJSON file as a table keyed by its first record.")
	jsontableFile = jsontableCommand.Arg("file", "NDJSON file; may be missing.").
			Required().String()
	jsontableStyle = jsontableCommand.Flag("style", "Table style.").
			Default("dynamic").Enum("dynamic", "aligned")
)

func doJSONTable(ctx context.Context, cfg config.Config) {
	style, err := markdown.ParseStyle(*jsontableStyle)
	app.FatalIfError(err, "style")

	f, err := ingest.OpenNonEmpty(*jsontableFile)
	if errors.Is(err, ingest.ErrNothingToDo) {
		nothingToDo(err)
		return
	}
	app.FatalIfError(err, "jsontable")
	defer f.Close()

	tbl, err := convert.JSONTable(*jsontableFile, f)
	if errors.Is(err, convert.ErrNoRecords) {
		nothingToDo(errors.Wrapf(ingest.ErrNothingToDo, "file '%s' is empty", *jsontableFile))
		return
	}
	app.FatalIfError(err, "jsontable")

	var buf bytes.Buffer
	app.FatalIfError(markdown.Render(&buf, tbl, style), "render")
	emit(ctx, cfg, buf.String())
}

func init() {
	commandHandlers = append(commandHandlers, func(ctx context.Context, cfg config.Config, command string) bool {
		if command != jsontableCommand.FullCommand() {
			return false
		}
		doJSONTable(ctx, cfg)
		return true
	})
}

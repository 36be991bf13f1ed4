package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/connector/httpclient"
	"github.com/hejijunhao/falcomd/internal/connector/virustotal"
	"github.com/hejijunhao/falcomd/internal/convert"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/reputation"
)

var (
	reputationCommand = app.Command("reputation",
		"Annotate NDJSON records with indicator reputation.")
	reputationFile = reputationCommand.Arg("file", "NDJSON file of records.").
			Required().ExistingFile()
	reputationMode = reputationCommand.Flag("mode", "Indicator kind.").
			Required().Enum(string(reputation.ModeIPs), string(reputation.ModeHashes))
	reputationMarkdown = reputationCommand.Flag("markdown",
		"Render the annotated records as a table instead of NDJSON.").Bool()
)

func doReputation(ctx context.Context, cfg config.Config) {
	app.FatalIfError(cfg.ValidateReputation(), "reputation")
	mode, err := reputation.ParseMode(*reputationMode)
	app.FatalIfError(err, "mode")

	f, err := ingest.Open(*reputationFile)
	app.FatalIfError(err, "reputation")
	defer f.Close()

	records, err := convert.Records(*reputationFile, f)
	app.FatalIfError(err, "reputation")

	svc := reputation.NewService(
		virustotal.New(cfg.VirusTotal.BaseURL, cfg.VirusTotal.APIKey,
			httpclient.WithUserAgent("falcomd/"+config.Version),
			httpclient.WithTimeout(cfg.HTTPTimeout)),
		reputation.WithRatePerMinute(cfg.VirusTotal.RatePerMinute),
	)

	counts := map[reputation.Label]int{}
	for _, rec := range records {
		counts[svc.Annotate(ctx, mode, rec)]++
	}
	slog.Info("reputation complete",
		"records", len(records),
		"lookups", svc.Cached(),
		"clean", counts[reputation.Clean],
		"suspicious", counts[reputation.Suspicious],
		"unknown", counts[reputation.Unknown])

	var buf bytes.Buffer
	if *reputationMarkdown {
		if len(records) > 0 {
			tbl, err := convert.RecordsTable(records)
			app.FatalIfError(err, "reputation")
			app.FatalIfError(markdown.Render(&buf, tbl, markdown.Dynamic), "render")
		}
	} else {
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		for _, rec := range records {
			app.FatalIfError(enc.Encode(rec), "encode record")
		}
	}
	emit(ctx, cfg, buf.String())
}

func init() {
	commandHandlers = append(commandHandlers, func(ctx context.Context, cfg config.Config, command string) bool {
		if command != reputationCommand.FullCommand() {
			return false
		}
		doReputation(ctx, cfg)
		return true
	})
}

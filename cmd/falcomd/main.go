package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/hejijunhao/falcomd/internal/config"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/logging"
	"github.com/hejijunhao/falcomd/internal/output"
	"github.com/hejijunhao/falcomd/internal/output/file"
	"github.com/hejijunhao/falcomd/internal/output/multi"
	"github.com/hejijunhao/falcomd/internal/output/stdout"
)

// CommandHandler runs command and reports whether it owned it.
type CommandHandler func(ctx context.Context, cfg config.Config, command string) bool

var (
	app = kingpin.New("falcomd",
		"Render runtime-security telemetry as Markdown reports.")

	logLevel = app.Flag("log-level", "Log level (debug, info, warn, error).").
			Envar("FALCOMD_LOG_LEVEL").String()
	logFormat = app.Flag("log-format", "Log format (text, json).").
			Envar("FALCOMD_LOG_FORMAT").Enum("text", "json")
	stepSummary = app.Flag("step-summary",
		"Also append the document to the file named by GITHUB_STEP_SUMMARY.").Bool()

	commandHandlers []CommandHandler
)

func main() {
	app.HelpFlag.Short('h')
	app.Version(config.Version)
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg := config.Load()
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	app.FatalIfError(cfg.Validate(), "invalid configuration")
	logging.Init(cfg.LogFormat == "json", logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, handler := range commandHandlers {
		if handler(ctx, cfg, command) {
			return
		}
	}
	app.Fatalf("unknown command %q", command)
}

// openOutput returns stdout, fanned out to the step summary file when
// requested and available.
func openOutput(cfg config.Config) output.Output {
	if !*stepSummary || cfg.StepSummary == "" {
		return stdout.New()
	}
	f, err := file.New(cfg.StepSummary)
	app.FatalIfError(err, "open step summary")
	return multi.New(stdout.New(), f)
}

// emit writes doc through the configured outputs.
func emit(ctx context.Context, cfg config.Config, doc string) {
	out := openOutput(cfg)
	err := out.Write(ctx, doc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	app.FatalIfError(err, "write output")
}

// nothingToDo reports a missing or empty optional input.
func nothingToDo(err error) {
	msg := strings.TrimSuffix(err.Error(), ": "+ingest.ErrNothingToDo.Error())
	if msg != "" {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	fmt.Fprintf(os.Stderr, "%s. Nothing to do.\n", msg)
}

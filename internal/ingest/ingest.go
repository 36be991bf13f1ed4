// Package ingest reads newline-delimited inputs and classifies per-line
// failures as fatal (abort the run) or recoverable (skip the line).
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// maxLineSize bounds a single input line. Falco outputs and sysdig
// buffers can be long, so the scanner default of 64KB is not enough.
const maxLineSize = 4 * 1024 * 1024

// ErrNothingToDo marks an input that is missing or empty. Callers treat it
// as a clean exit rather than a failure.
var ErrNothingToDo = errors.New("nothing to do")

// Severity decides whether a line failure aborts the run.
type Severity int

const (
	Recoverable Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "recoverable"
}

// LineError is a failure tied to one input line.
type LineError struct {
	Source   string
	Line     int // 1-based
	Severity Severity
	Err      error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// FatalAt builds a fatal LineError.
func FatalAt(source string, line int, err error) *LineError {
	return &LineError{Source: source, Line: line, Severity: Fatal, Err: err}
}

// RecoverableAt builds a recoverable LineError.
func RecoverableAt(source string, line int, err error) *LineError {
	return &LineError{Source: source, Line: line, Severity: Recoverable, Err: err}
}

// IsFatal reports whether err must abort the run. Errors that are not
// LineErrors are always fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var le *LineError
	if errors.As(err, &le) {
		return le.Severity == Fatal
	}
	return true
}

// Lines calls fn for every line of r with its 1-based number. Trailing
// carriage returns are stripped. Iteration stops at the first error fn
// returns.
func Lines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, strings.TrimRight(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	return errors.Wrap(sc.Err(), "read lines")
}

// Open opens path for reading and logs its size.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if info, err := f.Stat(); err == nil {
		slog.Debug("reading input", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	}
	return f, nil
}

// OpenNonEmpty is Open for inputs where a missing or empty file is not an
// error. Both cases return an error wrapping ErrNothingToDo.
func OpenNonEmpty(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNothingToDo, "file '%s' does not exist", path)
		}
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}
	if info.Size() == 0 {
		return nil, errors.Wrapf(ErrNothingToDo, "file '%s' is empty", path)
	}
	return Open(path)
}

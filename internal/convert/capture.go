package convert

import (
	"io"
	"strings"

	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/model"
)

const (
	// captureHeaderLines is the sysdig report's own header and separator.
	captureHeaderLines = 2

	MissingProto      = "<NA>"
	MissingConnection = "<unknown>"
)

var (
	captureHeader = []string{"Bytes", "Proto", "Connection"}
	captureWidths = []int{9, 5, 48}
)

// ParseCaptureLine splits one report line on whitespace runs. ok is false
// for blank lines.
func ParseCaptureLine(line string) (c model.Connection, ok bool) {
	cols := strings.Fields(line)
	switch {
	case len(cols) == 0:
		return c, false
	case len(cols) >= 3:
		return model.Connection{
			Bytes:      cols[0],
			Proto:      cols[1],
			Connection: strings.Join(cols[2:], " "),
		}, true
	default:
		return model.Connection{
			Bytes:      cols[0],
			Proto:      MissingProto,
			Connection: MissingConnection,
		}, true
	}
}

// Capture builds the fixed-width connection table from a sysdig
// top-connections report.
func Capture(r io.Reader) (*markdown.Table, error) {
	tbl := markdown.NewTable(captureHeader...)
	tbl.Widths = captureWidths
	tbl.HeaderTrailingSpace = true
	err := ingest.Lines(r, func(n int, line string) error {
		if n <= captureHeaderLines {
			return nil
		}
		if c, ok := ParseCaptureLine(line); ok {
			tbl.Append(c.Bytes, c.Proto, c.Connection)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

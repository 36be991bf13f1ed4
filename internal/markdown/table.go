// Package markdown renders pipe tables and escapes free text for them.
//
// Tables render in one of three explicit styles and the caller always
// picks one.
package markdown

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
)

// Style selects the rendering strategy.
type Style int

const (
	// Dynamic joins cells as-is with a `---` separator per column.
	Dynamic Style = iota
	// Fixed uses a dashed separator sized to each header and left-justifies
	// cells to Table.Widths when set. Rows keep a trailing space after the
	// closing pipe, and so do the header and separator when
	// Table.HeaderTrailingSpace is set.
	Fixed
	// Aligned pads every column to its widest cell.
	Aligned
)

// ParseStyle maps a flag value to a Style.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "dynamic", "":
		return Dynamic, nil
	case "fixed":
		return Fixed, nil
	case "aligned":
		return Aligned, nil
	}
	return Dynamic, fmt.Errorf("unknown table style %q", s)
}

func (s Style) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case Aligned:
		return "aligned"
	default:
		return "dynamic"
	}
}

// RaggedRowError reports a row whose cell count differs from the header.
type RaggedRowError struct {
	Row  int // 0-based data row index
	Got  int
	Want int
}

func (e *RaggedRowError) Error() string {
	return fmt.Sprintf("row %d has %d cells, header has %d", e.Row, e.Got, e.Want)
}

// Table is a header plus data rows of display strings.
type Table struct {
	Header []string
	Rows   [][]string
	Widths []int // per-column minimum width, Fixed style only

	// HeaderTrailingSpace ends the Fixed header and separator lines in
	// "| " like the data rows.
	HeaderTrailingSpace bool
}

// NewTable creates an empty table with the given header.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// Append adds a data row.
func (t *Table) Append(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Validate checks that every row has as many cells as the header.
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return &RaggedRowError{Row: i, Got: len(row), Want: len(t.Header)}
		}
	}
	return nil
}

// Render writes t to w in the given style. Nothing is written when the
// table is ragged.
func Render(w io.Writer, t *Table, style Style) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if style == Aligned {
		return renderAligned(w, t)
	}

	bw := bufio.NewWriter(w)
	switch style {
	case Fixed:
		eol := "\n"
		if t.HeaderTrailingSpace {
			eol = " \n"
		}
		bw.WriteString("| " + strings.Join(t.Header, " | ") + " |" + eol)
		bw.WriteString("|")
		for _, h := range t.Header {
			bw.WriteString(strings.Repeat("-", utf8.RuneCountInString(h)+2) + "|")
		}
		bw.WriteString(eol)
		for _, row := range t.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = pad(c, t.width(i))
			}
			bw.WriteString("| " + strings.Join(cells, " | ") + " | \n")
		}
	default:
		bw.WriteString("| " + strings.Join(t.Header, " | ") + " |\n")
		seps := make([]string, len(t.Header))
		for i := range seps {
			seps[i] = "---"
		}
		bw.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		for _, row := range t.Rows {
			bw.WriteString("| " + strings.Join(row, " | ") + " |\n")
		}
	}
	return bw.Flush()
}

func (t *Table) width(col int) int {
	if col < len(t.Widths) {
		return t.Widths[col]
	}
	return 0
}

// pad left-justifies s to width runes; longer values are kept whole.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func renderAligned(w io.Writer, t *Table) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Header)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(t.Rows)
	tw.Render()
	return nil
}

// Heading returns an ATX heading line of the given level.
func Heading(level int, text string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + text + "\n"
}

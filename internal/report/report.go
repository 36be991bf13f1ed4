// Package report assembles several NDJSON files into one titled Markdown
// document, one section per file.
package report

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hejijunhao/falcomd/internal/convert"
	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
)

// Title heads every report.
const Title = "Summary"

// Section is one rendered input file.
type Section struct {
	Name  string
	Table *markdown.Table
}

// Report is an ordered list of sections.
type Report struct {
	Sections []Section
}

// SectionName derives a heading from a file path: the basename without
// its extension, first letter upper-cased.
func SectionName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Collect reads each path into a section, in argument order. Missing,
// empty and blank files are skipped; a malformed line in any file aborts.
func Collect(paths []string) (*Report, error) {
	rep := &Report{}
	for _, path := range paths {
		sec, err := collectOne(path)
		if errors.Is(err, ingest.ErrNothingToDo) {
			slog.Info("skipping report input", "path", path, "reason", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		rep.Sections = append(rep.Sections, *sec)
	}
	return rep, nil
}

func collectOne(path string) (*Section, error) {
	f, err := ingest.OpenNonEmpty(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := convert.Records(path, f)
	if err != nil {
		return nil, err
	}
	tbl, err := convert.RecordsTable(records)
	if errors.Is(err, convert.ErrNoRecords) {
		return nil, errors.Wrapf(ingest.ErrNothingToDo, "file '%s' has no records", path)
	}
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &Section{Name: SectionName(path), Table: tbl}, nil
}

// Markdown writes the report as a Markdown document with Dynamic tables.
func (r *Report) Markdown(w io.Writer) error {
	if _, err := io.WriteString(w, markdown.Heading(1, Title)); err != nil {
		return err
	}
	for _, sec := range r.Sections {
		if _, err := io.WriteString(w, "\n"+markdown.Heading(2, sec.Name)); err != nil {
			return err
		}
		if err := markdown.Render(w, sec.Table, markdown.Dynamic); err != nil {
			return errors.Wrapf(err, "section %s", sec.Name)
		}
	}
	return nil
}

// HTML writes the report converted to HTML with GFM tables.
func (r *Report) HTML(w io.Writer) error {
	var md bytes.Buffer
	if err := r.Markdown(&md); err != nil {
		return err
	}
	return ToHTML(w, md.Bytes())
}

// ToHTML converts a Markdown document to HTML.
func ToHTML(w io.Writer, src []byte) error {
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	return errors.Wrap(conv.Convert(src, w), "convert markdown")
}

package convert

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/model"
)

// ErrNoRecords is returned for input that has no non-blank lines.
var ErrNoRecords = errors.New("no records")

// Records reads every non-blank NDJSON line as a model.Record. The first
// malformed line aborts with a fatal error.
func Records(source string, r io.Reader) ([]*model.Record, error) {
	var records []*model.Record
	err := ingest.Lines(r, func(n int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		rec, err := model.ParseRecord([]byte(line))
		if err != nil {
			return ingest.FatalAt(source, n, errors.Wrap(err, "parse JSON"))
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// RecordsTable renders records as a table whose columns are the keys of
// the first record, in order. A later record missing one of those keys is
// an error.
func RecordsTable(records []*model.Record) (*markdown.Table, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	header := records[0].Keys()
	tbl := markdown.NewTable(header...)
	for i, rec := range records {
		row := make([]string, len(header))
		for j, key := range header {
			v, ok := rec.Field(key)
			if !ok {
				return nil, errors.Errorf("record %d is missing key %q", i+1, key)
			}
			row[j] = v
		}
		tbl.Append(row...)
	}
	return tbl, nil
}

// JSONTable reads NDJSON from r and renders it as a table keyed by the
// first line.
func JSONTable(source string, r io.Reader) (*markdown.Table, error) {
	records, err := Records(source, r)
	if err != nil {
		return nil, err
	}
	tbl, err := RecordsTable(records)
	if err != nil {
		return nil, errors.Wrap(err, source)
	}
	return tbl, nil
}

package convert

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/hejijunhao/falcomd/internal/ingest"
	"github.com/hejijunhao/falcomd/internal/markdown"
	"github.com/hejijunhao/falcomd/internal/model"
	"github.com/hejijunhao/falcomd/internal/timeline"
)

func openFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func render(t *testing.T, tbl *markdown.Table, style markdown.Style) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := markdown.Render(&buf, tbl, style); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.Bytes()
}

func TestEventsGolden(t *testing.T) {
	tl, err := timeline.Build("timeline.json", openFixture(t, "timeline.json"))
	if err != nil {
		t.Fatalf("build timeline: %v", err)
	}
	tbl, err := Events("events.json", openFixture(t, "events.json"), tl)
	if err != nil {
		t.Fatalf("events: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "events", render(t, tbl, markdown.Fixed))
}

func TestEventsScenario(t *testing.T) {
	events := `{"time":"2024-01-01T00:00:01.123Z","rule":"R1","output":"a|b","priority":"high"}`
	steps := `{"steps":{"status":"completed","name":"build","started_at":"2024-01-01T00:00:00Z","completed_at":"2024-01-01T00:00:05Z"}}`

	tl, err := timeline.Build("t", strings.NewReader(steps))
	if err != nil {
		t.Fatalf("build timeline: %v", err)
	}
	tbl, err := Events("e", strings.NewReader(events), tl)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tbl.Rows))
	}
	row := tbl.Rows[0]
	if row[1] != "build" {
		t.Fatalf("expected step build, got %q", row[1])
	}
	if row[3] != `a\|b` {
		t.Fatalf("expected escaped output a\\|b, got %q", row[3])
	}
}

func TestEventsWithoutTimeline(t *testing.T) {
	events := `{"time":"2024-01-01T00:00:01.123Z","rule":"R1","output":"x","priority":"high"}`
	tbl, err := Events("e", strings.NewReader(events), nil)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if tbl.Rows[0][1] != NoStep {
		t.Fatalf("expected %q placeholder, got %q", NoStep, tbl.Rows[0][1])
	}
}

func TestEventsFatalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"malformed JSON", "{\"time\":\"2024-01-01T00:00:01Z\",\"rule\":\"R\",\"output\":\"o\",\"priority\":\"p\"}\n{oops", 2},
		{"missing rule", `{"time":"2024-01-01T00:00:01Z","output":"o","priority":"p"}`, 1},
		{"bad time", `{"time":"yesterday","rule":"R","output":"o","priority":"p"}`, 1},
	}
	for _, tt := range tests {
		_, err := Events("events.json", strings.NewReader(tt.input), nil)
		if !ingest.IsFatal(err) {
			t.Errorf("%s: expected fatal error, got %v", tt.name, err)
			continue
		}
		var le *ingest.LineError
		if !errors.As(err, &le) || le.Line != tt.line {
			t.Errorf("%s: expected LineError on line %d, got %v", tt.name, tt.line, err)
		}
	}
}

func TestParseEventTime(t *testing.T) {
	want := time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC)
	for _, in := range []string{
		"2024-01-01T00:00:01.123Z",
		"2024-01-01T00:00:01.123456789Z",
		"2024-01-01T00:00:01Z",
		"2024-01-01T00:00:01",
		"2024-01-01T02:00:01.5+02:00",
	} {
		got, err := ParseEventTime(in)
		if err != nil {
			t.Errorf("ParseEventTime(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseEventTime(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEventRowFormatsTimestamp(t *testing.T) {
	ev := model.FiredEvent{
		Time:     time.Date(2024, 1, 1, 0, 0, 1, 0, time.UTC),
		Rule:     "Terminal shell in container",
		Output:   "A shell was spawned (user=root)",
		Priority: "Notice",
	}
	row := EventRow(ev, []string{"build", "test"})
	want := []string{
		"2024-01-01 00:00:01+00:00",
		"build, test",
		"Terminal shell in container",
		`A shell was spawned \(user=root\)`,
		"Notice",
	}
	if strings.Join(row, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", row, want)
	}
}

func TestCaptureGolden(t *testing.T) {
	tbl, err := Capture(openFixture(t, "capture.txt"))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	g := goldie.New(t)
	g.Assert(t, "capture", render(t, tbl, markdown.Fixed))
}

func TestParseCaptureLine(t *testing.T) {
	tests := []struct {
		line string
		want model.Connection
		ok   bool
	}{
		{"1500 tcp 10.0.0.1:443->10.0.0.2:5000", model.Connection{Bytes: "1500", Proto: "tcp", Connection: "10.0.0.1:443->10.0.0.2:5000"}, true},
		{"1500", model.Connection{Bytes: "1500", Proto: MissingProto, Connection: MissingConnection}, true},
		{"1.2K tcp", model.Connection{Bytes: "1.2K", Proto: MissingProto, Connection: MissingConnection}, true},
		{"\t77  udp  a:1->b:2   (x)  ", model.Connection{Bytes: "77", Proto: "udp", Connection: "a:1->b:2 (x)"}, true},
		{"   ", model.Connection{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseCaptureLine(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseCaptureLine(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCaptureSkipsTwoHeaderLines(t *testing.T) {
	tbl, err := Capture(strings.NewReader("1 a b\n2 c d\n3 tcp x->y\n"))
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if len(tbl.Rows) != 1 || tbl.Rows[0][0] != "3" {
		t.Fatalf("expected only the third line, got %v", tbl.Rows)
	}
}

func TestJSONTableGolden(t *testing.T) {
	tbl, err := JSONTable("records.json", openFixture(t, "records.json"))
	if err != nil {
		t.Fatalf("jsontable: %v", err)
	}
	g := goldie.New(t)
	g.Assert(t, "records", render(t, tbl, markdown.Dynamic))
}

func TestJSONTableHeaderFromFirstLine(t *testing.T) {
	input := `{"b":1,"a":2}
{"a":3,"b":4,"c":5}`
	tbl, err := JSONTable("x", strings.NewReader(input))
	if err != nil {
		t.Fatalf("jsontable: %v", err)
	}
	if strings.Join(tbl.Header, ",") != "b,a" {
		t.Fatalf("expected first-line key order b,a; got %v", tbl.Header)
	}
	if strings.Join(tbl.Rows[1], ",") != "4,3" {
		t.Fatalf("unexpected second row: %v", tbl.Rows[1])
	}
}

func TestJSONTableErrors(t *testing.T) {
	if _, err := JSONTable("x", strings.NewReader("{\"a\":1}\n{\"b\":2}\n")); err == nil {
		t.Fatal("expected error for record missing a header key")
	}
	_, err := JSONTable("x", strings.NewReader("{\"a\":1}\nnot json\n"))
	if !ingest.IsFatal(err) {
		t.Fatalf("expected fatal error for malformed line, got %v", err)
	}
	if _, err := JSONTable("x", strings.NewReader("\n\n")); !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTimeIntervalContains(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iv := TimeInterval{Name: "build", Start: start, End: start.Add(5 * time.Second)}

	if !iv.Contains(start) || !iv.Contains(iv.End) {
		t.Fatal("bounds must be inclusive")
	}
	if iv.Contains(start.Add(-time.Nanosecond)) || iv.Contains(iv.End.Add(time.Nanosecond)) {
		t.Fatal("values outside the interval must not match")
	}
}

func TestParseRecordKeepsKeyOrder(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"zeta":1,"alpha":"x","mid":true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(rec.Keys(), ","); got != "zeta,alpha,mid" {
		t.Fatalf("unexpected key order: %s", got)
	}
	if v, ok := rec.Field("zeta"); !ok || v != "1" {
		t.Fatalf("zeta = %q, %v", v, ok)
	}
	if v, ok := rec.Field("mid"); !ok || v != "true" {
		t.Fatalf("mid = %q, %v", v, ok)
	}
	if _, ok := rec.Field("missing"); ok {
		t.Fatal("expected missing key to be absent")
	}
}

func TestRecordMarshalKeepsOrder(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"fd.sip":"10.0.0.1","proc.name":"curl"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec.Set("reputation", "Clean")

	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"fd.sip":"10.0.0.1","proc.name":"curl","reputation":"Clean"}`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestParseRecordRejectsMalformed(t *testing.T) {
	if _, err := ParseRecord([]byte(`{"a":`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "true"},
		{json.Number("12"), "12"},
		{float64(3), "3"},
		{1.5, "1.5"},
		{int64(-4), "-4"},
		{[]any{"a", float64(1)}, `["a",1]`},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

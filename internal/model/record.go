package model

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Velocidex/ordereddict"
)

// Record is one NDJSON object with its source key order preserved.
type Record struct {
	*ordereddict.Dict
}

// ParseRecord decodes a single JSON object line.
func ParseRecord(line []byte) (*Record, error) {
	dict := ordereddict.NewDict()
	if err := json.Unmarshal(line, dict); err != nil {
		return nil, err
	}
	return &Record{Dict: dict}, nil
}

// Field returns the display form of key and whether it was present.
func (r *Record) Field(key string) (string, bool) {
	v, ok := r.Get(key)
	if !ok {
		return "", false
	}
	return FormatValue(v), true
}

// MarshalJSON keeps the original key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Dict)
}

// FormatValue renders a decoded JSON value as a table cell.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

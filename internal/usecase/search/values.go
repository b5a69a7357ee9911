package search

import (
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/crmsearch/internal/db"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// str reads a column as text. Missing and null values become "".
func str(row db.Row, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// num reads a column as a number. Numeric strings are parsed; anything else is 0.
func num(row db.Row, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// boolean reads a column as a flag. SQLite stores booleans as 0/1.
func boolean(row db.Row, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case nil:
		return false
	default:
		return num(row, key) != 0
	}
}

// tags reads a list column stored as an array, a JSON array or comma-separated text.
func tags(row db.Row, key string) []string {
	switch v := row[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return []string{}
		}
		if strings.HasPrefix(s, "[") {
			var out []string
			if err := json.UnmarshalFromString(s, &out); err == nil {
				return out
			}
			return []string{}
		}
		out := []string{}
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{}
	}
}

// firstNonEmpty returns the first non-empty column value.
func firstNonEmpty(row db.Row, keys ...string) string {
	for _, k := range keys {
		if s := str(row, k); s != "" {
			return s
		}
	}
	return ""
}

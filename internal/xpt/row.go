package xpt

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SEND --DTC values are ISO 8601 with varying precision.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// Str returns the value as a trimmed string, or "" when absent or missing.
func (r Row) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Num returns the value as a float, or nil when absent, missing or
// unparseable. Character variables holding numbers parse too.
func (r Row) Num(key string) *float64 {
	switch v := r[key].(type) {
	case float64:
		return &v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// Int rounds Num to the nearest integer.
func (r Row) Int(key string) *int {
	n := r.Num(key)
	if n == nil {
		return nil
	}
	i := int(math.Round(*n))
	return &i
}

// Date parses an ISO 8601 date/datetime value, or nil when absent or
// unparseable.
func (r Row) Date(key string) *time.Time {
	s := r.Str(key)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

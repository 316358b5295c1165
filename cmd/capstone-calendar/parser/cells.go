package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one spreadsheet row keyed by column letter ("A", "B", ..., "BH").
type Row map[string]any

// Cell returns the raw value at column, or nil when the cell is missing or blank.
func (r Row) Cell(column string) any {
	v, ok := r[column]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return s
	}
	return v
}

// Sources is an ordered list of candidate columns for one field; the first
// non-empty cell wins. Used where a value may sit in any of several merged cells.
type Sources []string

// FirstNonEmpty resolves candidates against the row.
func (r Row) FirstNonEmpty(candidates Sources) *string {
	for _, column := range candidates {
		if s := ParseString(r.Cell(column)); s != nil {
			return s
		}
	}
	return nil
}

// ParseString renders a cell as trimmed text, nil when blank.
func ParseString(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		s = strconv.FormatBool(t)
	case json.Number:
		s = t.String()
	case time.Time:
		s = t.Format(time.DateOnly)
	default:
		s = strings.TrimSpace(fmt.Sprint(t))
	}
	if s == "" {
		return nil
	}
	return &s
}

var dateLayouts = []string{
	"1/2/2006",
	time.DateOnly,
}

// ParseDate accepts M/D/YYYY (zero padding optional) and strict YYYY-MM-DD,
// returning the ISO date. Anything else, including impossible calendar
// dates, yields nil.
func ParseDate(v any) *string {
	switch t := v.(type) {
	case time.Time:
		s := t.Format(time.DateOnly)
		return &s
	case string:
		value := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			parsed, err := time.Parse(layout, value)
			if err == nil {
				s := parsed.Format(time.DateOnly)
				return &s
			}
		}
	}
	return nil
}

// ParseBoolean is nil for a blank cell. Text matches true/yes/1 in any case;
// numbers are true when non-zero.
func ParseBoolean(v any) *bool {
	var b bool
	switch t := v.(type) {
	case nil:
		return nil
	case bool:
		b = t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "":
			return nil
		case "true", "yes", "1":
			b = true
		}
	case float64:
		b = t != 0 && !math.IsNaN(t)
	case int:
		b = t != 0
	case int64:
		b = t != 0
	case json.Number:
		f, err := t.Float64()
		b = err == nil && f != 0
	default:
		b = true
	}
	return &b
}

// ParseNumber returns the numeric value of a cell, nil when blank or
// non-numeric. Fractions are kept.
func ParseNumber(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case float64:
		f = t
	case float32:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

package kintone

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Field is a single record field. The platform wraps every value in
// {"value": ...}; scalars always travel as strings.
type Field struct {
	Value any `json:"value"`
}

// Record is one row of an app: field code -> wrapped value.
type Record map[string]Field

// SubtableRow wraps a nested record inside a subtable field.
type SubtableRow struct {
	Value Record `json:"value"`
}

// String returns the field value as a string, or "" if absent
// or not a string.
func (r Record) String(code string) string {
	f, ok := r[code]
	if !ok {
		return ""
	}
	s, _ := f.Value.(string)
	return s
}

// Decimal parses the field value as a decimal number. Missing or
// empty fields read as zero.
func (r Record) Decimal(code string) (decimal.Decimal, error) {
	s := r.String(code)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// Int parses the field value as an integer.
func (r Record) Int(code string) (int, error) {
	return strconv.Atoi(r.String(code))
}

// Rows extracts the rows of a subtable field. JSON decoding leaves the
// nested structure as generic maps, so this rebuilds typed Records.
func (r Record) Rows(code string) []Record {
	f, ok := r[code]
	if !ok {
		return nil
	}
	raw, ok := f.Value.([]any)
	if !ok {
		return nil
	}
	rows := make([]Record, 0, len(raw))
	for _, el := range raw {
		wrapper, ok := el.(map[string]any)
		if !ok {
			continue
		}
		inner, ok := wrapper["value"].(map[string]any)
		if !ok {
			continue
		}
		rec := Record{}
		for k, v := range inner {
			fv, ok := v.(map[string]any)
			if !ok {
				continue
			}
			rec[k] = Field{Value: fv["value"]}
		}
		rows = append(rows, rec)
	}
	return rows
}

// Str builds a string field.
func Str(v string) Field { return Field{Value: v} }

// Subtable builds a subtable field from nested records.
func Subtable(rows []Record) Field {
	wrapped := make([]SubtableRow, len(rows))
	for i, r := range rows {
		wrapped[i] = SubtableRow{Value: r}
	}
	return Field{Value: wrapped}
}

// Package dataset turns caller-supplied tabular data (CSV bytes or decoded
// JSON rows) into a uniform Table the scoring engine can consume. Column
// names are matched loosely: historical exports disagree on casing, spacing
// and separators, so resolution compares normalized forms.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is an immutable view over a parsed dataset. Rows are keyed by the
// original column header.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Resolve tries each candidate name in order and returns the first column
// whose normalized form matches. The ordered-candidate approach keeps field
// aliasing declarative instead of scattering name checks through the scorers.
func (t *Table) Resolve(candidates ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, want := range candidates {
		nw := Normalize(want)
		for _, col := range t.Columns {
			if Normalize(col) == nw {
				return col, true
			}
		}
	}
	return "", false
}

// Column returns all values of one column, in row order.
func (t *Table) Column(name string) []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[name])
	}
	return out
}

// Normalize lowercases a column name and strips spaces, underscores and
// dashes, so "Annual Salary", "annual_salary" and "AnnualSalary" all compare
// equal.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case ' ', '_', '-':
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseCSV parses CSV bytes into a Table. The first record is the header.
// Malformed rows are skipped rather than failing the whole parse; short rows
// keep whatever columns they have.
func ParseCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	t := &Table{Columns: headers}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, val := range record {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = strings.TrimSpace(val)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// FromRows builds a Table from decoded JSON objects. Column order follows
// first appearance so reports stay stable for a given payload.
func FromRows(rows []map[string]any) *Table {
	t := &Table{}
	seen := make(map[string]bool)
	for _, src := range rows {
		row := make(map[string]string, len(src))
		for key, val := range src {
			if !seen[key] {
				seen[key] = true
				t.Columns = append(t.Columns, key)
			}
			row[key] = stringify(val)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", x))
	}
}

// ParseNumber parses a numeric cell, tolerating currency symbols, thousands
// separators and surrounding whitespace ("£45,000" -> 45000). An unparsable
// value is a per-row error: the caller drops the row from that category only.
func ParseNumber(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "£")
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimPrefix(cleaned, "€")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable numeric value %q", s)
	}
	return f, nil
}

package models

import "strings"

// ColumnName is the free-text column that carries the channel handle.
const ColumnName = "NAME"

// Table is an in-memory CSV: a header plus rows of the same width.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of column, or -1.
func (t *Table) ColumnIndex(column string) int {
	for i, h := range t.Header {
		if h == column {
			return i
		}
	}
	return -1
}

// Value returns row[col], or "" when the row is short.
func (t *Table) Value(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Column returns every value of column in row order, or nil if the column is absent.
func (t *Table) Column(column string) []string {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i := range t.Rows {
		values[i] = t.Value(i, idx)
	}
	return values
}

// IsBlank reports whether a cell is empty or whitespace only.
func IsBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}

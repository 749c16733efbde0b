package analysis

import (
	"encoding/json"
	"fmt"
)

// PreviewRows is the number of data rows kept in a preview projection.
const PreviewRows = 5

// Table is a rectangular dataset: unique ordered column names and rows of
// cells aligned to them by position. Column order is the order of every output.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// NewTable validates the shape of columns and rows and returns a Table.
func NewTable(columns []string, rows [][]Cell) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("column %q: %w", c, ErrDuplicateColumn)
		}
		seen[c] = struct{}{}
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i+1, len(r), len(columns), ErrRaggedRow)
		}
	}
	if rows == nil {
		rows = [][]Cell{}
	}
	return &Table{Columns: columns, Rows: rows}, nil
}

// ColumnIndex returns the position of name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// Column returns the cells of column i in row order.
func (t *Table) Column(i int) []Cell {
	out := make([]Cell, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Head returns a table sharing the header with at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]Cell, n)
	for i := 0; i < n; i++ {
		rows[i] = append([]Cell(nil), t.Rows[i]...)
	}
	return &Table{Columns: append([]string(nil), t.Columns...), Rows: rows}
}

// Preview is the header plus the first PreviewRows rows.
func (t *Table) Preview() *Table { return t.Head(PreviewRows) }

// Matrix renders the table as header row followed by data rows of JSON primitives.
func (t *Table) Matrix() [][]any {
	out := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	out = append(out, header)
	for _, row := range t.Rows {
		vals := make([]any, len(row))
		for i, c := range row {
			vals[i] = c.Value()
		}
		out = append(out, vals)
	}
	return out
}

// MissingCells counts missing cells across the whole table.
func (t *Table) MissingCells() int {
	n := 0
	for _, row := range t.Rows {
		for _, c := range row {
			if c.IsMissing() {
				n++
			}
		}
	}
	return n
}

type tableJSON struct {
	Columns []string `json:"columns"`
	Rows    [][]Cell `json:"rows"`
}

func (t *Table) MarshalJSON() ([]byte, error) {
	rows := t.Rows
	if rows == nil {
		rows = [][]Cell{}
	}
	return json.Marshal(tableJSON{Columns: t.Columns, Rows: rows})
}

func (t *Table) UnmarshalJSON(b []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode table: %w", err)
	}
	nt, err := NewTable(raw.Columns, raw.Rows)
	if err != nil {
		return err
	}
	*t = *nt
	return nil
}

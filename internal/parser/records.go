package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

// naTokens are the raw strings read as missing values.
var naTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
	"<NA>": {},
}

// decodeCell maps one raw field to a cell.
func decodeCell(raw string) analysis.Cell {
	if _, ok := naTokens[raw]; ok {
		return analysis.Missing()
	}
	if f, ok := analysis.ParseNumber(raw); ok {
		return analysis.Number(f)
	}
	return analysis.Text(raw)
}

// normalizeHeader names blank columns "Unnamed: <i>" and suffixes repeats
// with ".1", ".2", ... so every column name is unique.
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, name := range raw {
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		out[i] = name
	}
	seen := make(map[string]int, len(out))
	for _, name := range out {
		used[name] = true
	}
	for i, name := range out {
		n := seen[name]
		seen[name] = n + 1
		if n == 0 {
			continue
		}
		cand := name + "." + strconv.Itoa(n)
		for used[cand] {
			n++
			cand = name + "." + strconv.Itoa(n)
		}
		seen[name] = n + 1
		used[cand] = true
		out[i] = cand
	}
	return out
}

// buildTable turns a header plus raw records into a Table. Short records are
// padded with missing cells; long ones are rejected.
func buildTable(header []string, records [][]string, firstLine int) (*analysis.Table, error) {
	if len(header) == 0 {
		return nil, ErrNoHeader
	}
	cols := normalizeHeader(header)
	rows := make([][]analysis.Cell, 0, len(records))
	for i, rec := range records {
		if len(rec) > len(cols) {
			return nil, fmt.Errorf("line %d has %d fields, header has %d: %w",
				firstLine+i, len(rec), len(cols), analysis.ErrRaggedRow)
		}
		row := make([]analysis.Cell, len(cols))
		for j, raw := range rec {
			row[j] = decodeCell(raw)
		}
		rows = append(rows, row)
	}
	return analysis.NewTable(cols, rows)
}

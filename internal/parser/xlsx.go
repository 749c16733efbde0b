package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads the first worksheet with raw (unformatted) cell values.
// Leading empty rows are skipped before the header.
func (xlsxParser) Parse(content []byte) (*analysis.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	iter, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("open sheet %s: %w", sheets[0], err)
	}
	defer func() { _ = iter.Close() }()

	var (
		header    []string
		records   [][]string
		line      int
		firstData int
	)
	for iter.Next() {
		line++
		cols, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if header == nil {
			if len(cols) == 0 {
				continue
			}
			header = cols
			firstData = line + 1
			continue
		}
		records = append(records, cols)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return buildTable(header, records, firstData)
}

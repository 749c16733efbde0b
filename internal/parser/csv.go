package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".csv")
}

func (csvParser) Parse(content []byte) (*analysis.Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return buildTable(header, records, 2)
}

package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

// Parser decodes one file format into a Table.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte) (*analysis.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

var (
	// ErrUnsupportedFileType is returned for extensions no parser accepts.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrNoHeader is returned when the input has no header row.
	ErrNoHeader = errors.New("no header row")
)

// Decode picks a parser by filename extension (case-insensitive) and decodes content.
func Decode(filename string, content []byte) (*analysis.Table, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			t, err := p.Parse(content)
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", filepath.Base(filename), err)
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", filepath.Ext(filename), ErrUnsupportedFileType)
}

// DecodeFile reads path from disk and decodes it.
func DecodeFile(path string) (*analysis.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(path, data)
}

// Supported reports whether some registered parser accepts filename.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

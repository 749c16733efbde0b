package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// CellKind tags the three variants a cell can hold.
type CellKind uint8

const (
	KindMissing CellKind = iota
	KindNumber
	KindText
)

func (k CellKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// Cell is a single table value: missing, a number, or text.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

// Missing returns an absent cell.
func Missing() Cell { return Cell{} }

// Number returns a numeric cell. NaN is stored as missing.
func Number(f float64) Cell {
	if math.IsNaN(f) {
		return Cell{}
	}
	return Cell{Kind: KindNumber, Num: f}
}

// Text returns a text cell.
func Text(s string) Cell { return Cell{Kind: KindText, Str: s} }

func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// Float reports the cell as a number when it is one or when its text parses as one.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Num, true
	case KindText:
		return ParseNumber(c.Str)
	default:
		return 0, false
	}
}

// String renders the cell as text; missing cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return formatNumber(c.Num)
	case KindText:
		return c.Str
	default:
		return ""
	}
}

// Value returns the cell as a JSON-ready primitive: nil, float64 or string.
func (c Cell) Value() any {
	switch c.Kind {
	case KindNumber:
		return safeFloat(c.Num, nil)
	case KindText:
		return c.Str
	default:
		return nil
	}
}

// key identifies a cell for counting distinct values; 1 and "1" stay distinct.
func (c Cell) key() string {
	switch c.Kind {
	case KindNumber:
		return "n:" + formatNumber(c.Num)
	case KindText:
		return "t:" + c.Str
	default:
		return ""
	}
}

func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}

func (c *Cell) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = Missing()
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode text cell: %w", err)
		}
		*c = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("decode number cell: %w", err)
	}
	*c = Number(f)
	return nil
}

var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber accepts signed integers and decimals (with optional exponent).
// Words such as "inf" or "nan", hex literals and grouped digits are rejected.
func ParseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if !numberPattern.MatchString(raw) {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

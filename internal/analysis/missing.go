package analysis

import (
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MissingStat counts absent cells of a column.
type MissingStat struct {
	MissingCount int `json:"missingCount"`
	// MissingPercent is a number rounded to two places, or "" for a table without rows.
	MissingPercent any `json:"missingPercent"`
}

// MissingReport maps column name to MissingStat, in column order.
type MissingReport = orderedmap.OrderedMap[string, MissingStat]

// MissingOverview counts missing cells per column.
func MissingOverview(t *Table) *MissingReport {
	out := orderedmap.New[string, MissingStat]()
	total := t.NumRows()
	for i, name := range t.Columns {
		n := 0
		for _, row := range t.Rows {
			if row[i].IsMissing() {
				n++
			}
		}
		pct := math.NaN()
		if total > 0 {
			pct = round(100*float64(n)/float64(total), 2)
		}
		out.Set(name, MissingStat{MissingCount: n, MissingPercent: percentValue(pct)})
	}
	return out
}

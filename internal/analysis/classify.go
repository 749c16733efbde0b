package analysis

// ColumnType is the outcome of classifying a column.
type ColumnType string

const (
	Numeric     ColumnType = "numeric"
	Categorical ColumnType = "categorical"
)

// Classification maps column name to its type.
type Classification map[string]ColumnType

// Classify marks a column numeric when every non-missing cell parses as a
// number. Columns with no values at all are categorical.
func Classify(t *Table) Classification {
	out := make(Classification, len(t.Columns))
	for i, name := range t.Columns {
		out[name] = classifyColumn(t, i)
	}
	return out
}

func classifyColumn(t *Table, col int) ColumnType {
	seen := 0
	for _, row := range t.Rows {
		c := row[col]
		if c.IsMissing() {
			continue
		}
		if _, ok := c.Float(); !ok {
			return Categorical
		}
		seen++
	}
	if seen == 0 {
		return Categorical
	}
	return Numeric
}

// NumericColumns lists the numeric columns of t in column order.
func (c Classification) NumericColumns(t *Table) []int {
	var idx []int
	for i, name := range t.Columns {
		if c[name] == Numeric {
			idx = append(idx, i)
		}
	}
	return idx
}

// numericValues returns the non-missing values of a numeric column in row order.
func numericValues(t *Table, col int) []float64 {
	vals := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if f, ok := row[col].Float(); ok {
			vals = append(vals, f)
		}
	}
	return vals
}

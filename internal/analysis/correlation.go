package analysis

import (
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// CorrelationPrecision is the number of decimals correlations are rounded to.
const CorrelationPrecision = 3

// CorrRow is one row of the correlation matrix, in column order.
type CorrRow = orderedmap.OrderedMap[string, float64]

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix = orderedmap.OrderedMap[string, *CorrRow]

// CorrelationMatrix computes pairwise-complete Pearson correlations between
// numeric columns. Undefined coefficients (fewer than two shared rows, a
// constant side) are 0, so a constant column is 0 even on its diagonal.
func CorrelationMatrix(t *Table) *CorrMatrix {
	idx := Classify(t).NumericColumns(t)
	n := len(idx)

	type column struct {
		vals []float64
		ok   []bool
	}
	cols := make([]column, n)
	for a, ci := range idx {
		c := column{vals: make([]float64, len(t.Rows)), ok: make([]bool, len(t.Rows))}
		for r, row := range t.Rows {
			c.vals[r], c.ok[r] = row[ci].Float()
		}
		cols[a] = c
	}

	mat := make([][]float64, n)
	for a := range mat {
		mat[a] = make([]float64, n)
	}
	var xs, ys []float64
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			xs, ys = xs[:0], ys[:0]
			for r := range t.Rows {
				if cols[a].ok[r] && cols[b].ok[r] {
					xs = append(xs, cols[a].vals[r])
					ys = append(ys, cols[b].vals[r])
				}
			}
			var r float64
			if a == b {
				if len(xs) >= 2 && !constant(xs) {
					r = 1
				}
			} else {
				r = round(pearson(xs, ys), CorrelationPrecision)
			}
			mat[a][b] = r
			mat[b][a] = r
		}
	}

	out := orderedmap.New[string, *CorrRow]()
	for a, ci := range idx {
		row := orderedmap.New[string, float64]()
		for b, cj := range idx {
			row.Set(t.Columns[cj], mat[a][b])
		}
		out.Set(t.Columns[ci], row)
	}
	return out
}

// pearson returns the correlation of paired samples, 0 when undefined.
func pearson(xs, ys []float64) float64 {
	if len(xs) < 2 || constant(xs) || constant(ys) {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var sxx, syy, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	denom := math.Sqrt(sxx * syy)
	if denom == 0 {
		return 0
	}
	r := zeroIfUndefined(sxy / denom)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func constant(vals []float64) bool {
	if len(vals) == 0 {
		return true
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

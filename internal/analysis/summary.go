package analysis

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Stats is one column's statistics keyed by statistic name, in output order.
type Stats = orderedmap.OrderedMap[string, any]

// Summary maps column name to its Stats, in column order.
type Summary = orderedmap.OrderedMap[string, *Stats]

const (
	statCount  = "count"
	statUnique = "unique"
	statTop    = "top"
	statFreq   = "freq"
	statMean   = "mean"
	statStd    = "std"
	statMin    = "min"
	statP25    = "25%"
	statP50    = "50%"
	statP75    = "75%"
	statMax    = "max"
)

var (
	categoricalStats = []string{statUnique, statTop, statFreq}
	numericStats     = []string{statMean, statStd, statMin, statP25, statP50, statP75, statMax}
)

// Summarize describes every column. All columns carry the same statistic keys;
// a statistic that does not apply to a column's type is "".
func Summarize(t *Table) *Summary {
	cls := Classify(t)
	var hasNum, hasCat bool
	for _, name := range t.Columns {
		if cls[name] == Numeric {
			hasNum = true
		} else {
			hasCat = true
		}
	}
	keys := []string{statCount}
	if hasCat {
		keys = append(keys, categoricalStats...)
	}
	if hasNum {
		keys = append(keys, numericStats...)
	}

	out := orderedmap.New[string, *Stats]()
	for i, name := range t.Columns {
		var computed map[string]any
		if cls[name] == Numeric {
			computed = describeNumeric(numericValues(t, i))
		} else {
			computed = describeCategorical(t.Column(i))
		}
		stats := orderedmap.New[string, any]()
		for _, k := range keys {
			v, ok := computed[k]
			if !ok {
				v = undefinedText
			}
			stats.Set(k, v)
		}
		out.Set(name, stats)
	}
	return out
}

func describeNumeric(vals []float64) map[string]any {
	sorted := sortedCopy(vals)
	return map[string]any{
		statCount: len(vals),
		statMean:  summaryValue(mean(vals)),
		statStd:   summaryValue(sampleStd(vals)),
		statMin:   summaryValue(quantile(sorted, 0)),
		statP25:   summaryValue(quantile(sorted, 0.25)),
		statP50:   summaryValue(quantile(sorted, 0.5)),
		statP75:   summaryValue(quantile(sorted, 0.75)),
		statMax:   summaryValue(quantile(sorted, 1)),
	}
}

func describeCategorical(cells []Cell) map[string]any {
	counts := make(map[string]int)
	first := make(map[string]Cell)
	var order []string
	count := 0
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		count++
		k := c.key()
		if _, ok := counts[k]; !ok {
			order = append(order, k)
			first[k] = c
		}
		counts[k]++
	}
	out := map[string]any{
		statCount:  count,
		statUnique: len(order),
	}
	if count == 0 {
		return out
	}
	// first value in row order wins ties
	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	out[statTop] = first[best].Value()
	out[statFreq] = counts[best]
	return out
}

package analysis

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TukeyK is the fence multiplier applied to the interquartile range.
const TukeyK = 1.5

// OutlierStat counts values outside the Tukey fences.
type OutlierStat struct {
	OutlierCount int `json:"outlierCount"`
}

// OutlierReport maps numeric column name to OutlierStat, in column order.
type OutlierReport = orderedmap.OrderedMap[string, OutlierStat]

// DetectOutliers counts, per numeric column, values below Q1-1.5*IQR or above
// Q3+1.5*IQR. Categorical columns are left out of the report. With IQR = 0
// every value different from the quartile is an outlier.
func DetectOutliers(t *Table) *OutlierReport {
	cls := Classify(t)
	out := orderedmap.New[string, OutlierStat]()
	for _, i := range cls.NumericColumns(t) {
		vals := numericValues(t, i)
		lo, hi := tukeyFences(sortedCopy(vals))
		n := 0
		for _, v := range vals {
			if v < lo || v > hi {
				n++
			}
		}
		out.Set(t.Columns[i], OutlierStat{OutlierCount: n})
	}
	return out
}

func tukeyFences(sorted []float64) (lo, hi float64) {
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return q1 - TukeyK*iqr, q3 + TukeyK*iqr
}

package analysis

import (
	"math"
	"sort"
)

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// quantile uses linear interpolation between closest ranks on sorted input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*w
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStd is the n-1 standard deviation (Welford); NaN below two values.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	var n int
	var m, m2 float64
	for _, x := range vals {
		n++
		delta := x - m
		m += delta / float64(n)
		m2 += delta * (x - m)
	}
	return math.Sqrt(m2 / float64(n-1))
}

func round(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

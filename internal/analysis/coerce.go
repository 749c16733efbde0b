package analysis

import "math"

// JSON cannot carry NaN or Infinity. Every result passes undefined numbers
// through one of these rules when it is built:
//
//	summary statistics     -> ""
//	missing percentage     -> ""
//	correlation            -> 0
//	chart series (numeric) -> 0
const undefinedText = ""

func safeFloat(f float64, fallback any) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func summaryValue(f float64) any { return safeFloat(f, undefinedText) }

func percentValue(f float64) any { return safeFloat(f, undefinedText) }

func zeroIfUndefined(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

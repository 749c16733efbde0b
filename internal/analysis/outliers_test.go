package analysis

import "testing"

func outlierCount(t *testing.T, rep *OutlierReport, col string) int {
	t.Helper()
	st, ok := rep.Get(col)
	if !ok {
		t.Fatalf("column %q missing from outlier report", col)
	}
	return st.OutlierCount
}

func TestDetectOutliersTukeyFence(t *testing.T) {
	// b: Q1=15, Q3=5010, IQR=4995, upper fence 12502.5, so 10000 is inside
	tbl := buildTable(t, []string{"a", "b"},
		[]any{1, 10},
		[]any{2, 20},
		[]any{3, 10000},
	)
	rep := DetectOutliers(tbl)
	if got := outlierCount(t, rep, "b"); got != 0 {
		t.Fatalf("b outliers = %d, want 0", got)
	}
	if got := outlierCount(t, rep, "a"); got != 0 {
		t.Fatalf("a outliers = %d, want 0", got)
	}

	tbl = buildTable(t, []string{"v"},
		[]any{10}, []any{11}, []any{12}, []any{13}, []any{14}, []any{100}, []any{-50},
	)
	// Q1=10.5, Q3=13.5, fences [6, 18]
	if got := outlierCount(t, DetectOutliers(tbl), "v"); got != 2 {
		t.Fatalf("v outliers = %d, want 2", got)
	}
}

func TestDetectOutliersConstantColumn(t *testing.T) {
	tbl := buildTable(t, []string{"k"},
		[]any{5}, []any{5}, []any{5}, []any{5}, []any{5}, []any{7}, []any{nil},
	)
	// IQR is 0, so every value other than 5 is flagged and missing never is
	if got := outlierCount(t, DetectOutliers(tbl), "k"); got != 1 {
		t.Fatalf("k outliers = %d, want 1", got)
	}
}

func TestDetectOutliersSkipsCategorical(t *testing.T) {
	tbl := buildTable(t, []string{"name", "n"}, []any{"x", 1}, []any{"y", 2})
	rep := DetectOutliers(tbl)
	if _, ok := rep.Get("name"); ok {
		t.Fatalf("categorical column should be excluded")
	}
	if rep.Len() != 1 {
		t.Fatalf("report has %d columns, want 1", rep.Len())
	}
}

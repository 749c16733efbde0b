package analysis

import "testing"

func corrAt(t *testing.T, m *CorrMatrix, a, b string) float64 {
	t.Helper()
	row, ok := m.Get(a)
	if !ok {
		t.Fatalf("row %q missing", a)
	}
	v, ok := row.Get(b)
	if !ok {
		t.Fatalf("cell %q/%q missing", a, b)
	}
	return v
}

func TestCorrelationMatrix(t *testing.T) {
	tbl := buildTable(t, []string{"x", "label", "y", "z", "k", "w"},
		[]any{1, "a", 2, 4, 5, 1},
		[]any{2, "b", 4, 3, 5, nil},
		[]any{3, "c", 6, 2, 5, 3},
		[]any{4, "d", 8, 1, 5, 2},
	)
	m := CorrelationMatrix(tbl)
	if m.Len() != 5 {
		t.Fatalf("matrix has %d rows, want 5 numeric columns", m.Len())
	}
	if _, ok := m.Get("label"); ok {
		t.Fatalf("categorical column should be dropped")
	}

	cases := []struct {
		a, b string
		want float64
	}{
		{"x", "y", 1},
		{"x", "z", -1},
		{"x", "k", 0},
		{"k", "k", 0},
		{"x", "x", 1},
		{"x", "w", 0.655},
	}
	for _, c := range cases {
		if got := corrAt(t, m, c.a, c.b); got != c.want {
			t.Errorf("corr(%s,%s) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCorrelationMatrixIsSymmetric(t *testing.T) {
	tbl := buildTable(t, []string{"a", "b", "c"},
		[]any{1.5, 7, nil},
		[]any{2.25, 3, 9},
		[]any{0.5, 8, 4},
		[]any{4, 1, 6},
		[]any{3.1, nil, 2},
	)
	m := CorrelationMatrix(tbl)
	cols := []string{"a", "b", "c"}
	for _, a := range cols {
		if corrAt(t, m, a, a) != 1 {
			t.Errorf("diagonal %s = %v, want 1", a, corrAt(t, m, a, a))
		}
		for _, b := range cols {
			if corrAt(t, m, a, b) != corrAt(t, m, b, a) {
				t.Errorf("corr(%s,%s) != corr(%s,%s)", a, b, b, a)
			}
		}
	}
}

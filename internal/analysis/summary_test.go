package analysis

import (
	"encoding/json"
	"strings"
	"testing"
)

func statOf(t *testing.T, s *Summary, col, stat string) any {
	t.Helper()
	st, ok := s.Get(col)
	if !ok {
		t.Fatalf("column %q missing from summary", col)
	}
	v, ok := st.Get(stat)
	if !ok {
		t.Fatalf("stat %q missing for column %q", stat, col)
	}
	return v
}

func TestSummarizeNumericAndCategorical(t *testing.T) {
	tbl := buildTable(t, []string{"n", "c"},
		[]any{1, "b"},
		[]any{2, "a"},
		[]any{3, "b"},
		[]any{4, "a"},
		[]any{nil, nil},
		[]any{nil, "c"},
	)
	s := Summarize(tbl)

	numeric := map[string]float64{
		"mean": 2.5, "std": 1.2909944487358056, "min": 1, "25%": 1.75, "50%": 2.5, "75%": 3.25, "max": 4,
	}
	for stat, want := range numeric {
		got, ok := statOf(t, s, "n", stat).(float64)
		if !ok || !approx(got, want) {
			t.Errorf("n.%s = %v, want %v", stat, statOf(t, s, "n", stat), want)
		}
	}
	if got := statOf(t, s, "n", "count"); got != 4 {
		t.Errorf("n.count = %v, want 4", got)
	}
	for _, stat := range []string{"unique", "top", "freq"} {
		if got := statOf(t, s, "n", stat); got != "" {
			t.Errorf("n.%s = %v, want empty", stat, got)
		}
	}

	if got := statOf(t, s, "c", "count"); got != 5 {
		t.Errorf("c.count = %v, want 5", got)
	}
	if got := statOf(t, s, "c", "unique"); got != 3 {
		t.Errorf("c.unique = %v, want 3", got)
	}
	// "b" and "a" both occur twice; "b" comes first
	if got := statOf(t, s, "c", "top"); got != "b" {
		t.Errorf("c.top = %v, want b", got)
	}
	if got := statOf(t, s, "c", "freq"); got != 2 {
		t.Errorf("c.freq = %v, want 2", got)
	}
	if got := statOf(t, s, "c", "mean"); got != "" {
		t.Errorf("c.mean = %v, want empty", got)
	}
}

func TestSummarizeKeyOrderAndJSON(t *testing.T) {
	tbl := buildTable(t, []string{"z", "a"}, []any{5, "x"})
	b, err := json.Marshal(Summarize(tbl))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	if strings.Index(got, `"z"`) > strings.Index(got, `"a"`) {
		t.Fatalf("columns not in table order: %s", got)
	}
	wantZ := `"z":{"count":1,"unique":"","top":"","freq":"","mean":5,"std":"","min":5,"25%":5,"50%":5,"75%":5,"max":5}`
	if !strings.Contains(got, wantZ) {
		t.Fatalf("summary json = %s\nwant fragment %s", got, wantZ)
	}
}

func TestSummarizeOnlyNumericOmitsCategoricalKeys(t *testing.T) {
	tbl := buildTable(t, []string{"n"}, []any{1}, []any{3})
	st, _ := Summarize(tbl).Get("n")
	if _, ok := st.Get("top"); ok {
		t.Fatalf("numeric-only table should not report top")
	}
	if st.Len() != 8 {
		t.Fatalf("numeric stats = %d keys, want 8", st.Len())
	}
}

func TestSummarizeEmptyTable(t *testing.T) {
	tbl := buildTable(t, []string{"a"})
	s := Summarize(tbl)
	if got := statOf(t, s, "a", "count"); got != 0 {
		t.Errorf("count = %v, want 0", got)
	}
	if got := statOf(t, s, "a", "top"); got != "" {
		t.Errorf("top = %v, want empty", got)
	}
}

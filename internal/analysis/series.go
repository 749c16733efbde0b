package analysis

import (
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ChartKind selects how BuildSeries shapes its records.
type ChartKind string

const (
	ChartScatter ChartKind = "scatter"
	ChartLine    ChartKind = "line"
	ChartBar     ChartKind = "bar"
	ChartHeatmap ChartKind = "heatmap"
)

// Record is one chart datum keyed by the requested column names.
type Record = orderedmap.OrderedMap[string, any]

// Series is chart-ready data plus the keys used to address it.
type Series struct {
	Data     []*Record `json:"data"`
	XKey     string    `json:"xKey"`
	YKey     string    `json:"yKey"`
	ValueKey string    `json:"valueKey,omitempty"`
}

// BuildSeries shapes rows of t into chart records.
//
//   - scatter: one record per row.
//   - line: scatter records stably sorted by x.
//   - bar: one record per distinct x; y is the group mean when numeric, otherwise the group size.
//   - heatmap: one record per distinct (x, y); valueKey is the group mean when numeric, otherwise the group size.
//
// Numeric axes render missing values as 0 and categorical axes as "".
func BuildSeries(t *Table, kind ChartKind, xKey, yKey, valueKey string) (*Series, error) {
	cls := Classify(t)
	x, err := newAxis(t, cls, xKey)
	if err != nil {
		return nil, err
	}
	y, err := newAxis(t, cls, yKey)
	if err != nil {
		return nil, err
	}
	s := &Series{XKey: xKey, YKey: yKey}
	switch kind {
	case ChartScatter:
		s.Data = pairRecords(t, x, y, false)
	case ChartLine:
		s.Data = pairRecords(t, x, y, true)
	case ChartBar:
		s.Data = barRecords(t, x, y)
	case ChartHeatmap:
		v, err := newAxis(t, cls, valueKey)
		if err != nil {
			return nil, err
		}
		s.ValueKey = valueKey
		s.Data = heatmapRecords(t, x, y, v)
	default:
		return nil, fmt.Errorf("chart %q: %w", kind, ErrUnknownAnalysis)
	}
	if s.Data == nil {
		s.Data = []*Record{}
	}
	return s, nil
}

type axis struct {
	name    string
	col     int
	numeric bool
}

func newAxis(t *Table, cls Classification, name string) (axis, error) {
	if name == "" {
		return axis{}, fmt.Errorf("empty column key: %w", ErrInvalidColumn)
	}
	i := t.ColumnIndex(name)
	if i < 0 {
		return axis{}, fmt.Errorf("column %q: %w", name, ErrInvalidColumn)
	}
	return axis{name: name, col: i, numeric: cls[name] == Numeric}, nil
}

type axisValue struct {
	num     float64
	str     string
	numeric bool
	missing bool
}

func (a axis) at(row []Cell) axisValue {
	c := row[a.col]
	v := axisValue{numeric: a.numeric, missing: c.IsMissing()}
	if v.missing {
		return v
	}
	if a.numeric {
		v.num, _ = c.Float()
	} else {
		v.str = c.String()
	}
	return v
}

func (v axisValue) json() any {
	if v.numeric {
		return v.num
	}
	return v.str
}

func (v axisValue) groupKey() string {
	if v.numeric {
		return formatNumber(v.num)
	}
	return v.str
}

func (v axisValue) less(o axisValue) bool {
	if v.numeric {
		return v.num < o.num
	}
	return v.str < o.str
}

func pairRecords(t *Table, x, y axis, sorted bool) []*Record {
	type pair struct{ x, y axisValue }
	pairs := make([]pair, len(t.Rows))
	for i, row := range t.Rows {
		pairs[i] = pair{x: x.at(row), y: y.at(row)}
	}
	if sorted {
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].x.less(pairs[j].x) })
	}
	out := make([]*Record, len(pairs))
	for i, p := range pairs {
		rec := orderedmap.New[string, any]()
		rec.Set(x.name, p.x.json())
		rec.Set(y.name, p.y.json())
		out[i] = rec
	}
	return out
}

// aggregate accumulates one group of rows.
type aggregate struct {
	x, y axisValue
	size int
	sum  float64
	n    int
}

func (g *aggregate) add(v axisValue) {
	g.size++
	if v.numeric && !v.missing {
		g.sum += v.num
		g.n++
	}
}

// result is the group mean of a numeric measure (0 when it has no values),
// else the number of rows in the group.
func (g *aggregate) result(measure axis) any {
	if !measure.numeric {
		return g.size
	}
	if g.n == 0 {
		return 0.0
	}
	return zeroIfUndefined(g.sum / float64(g.n))
}

func barRecords(t *Table, x, y axis) []*Record {
	groups := map[string]*aggregate{}
	var order []*aggregate
	for _, row := range t.Rows {
		xv := x.at(row)
		if xv.missing {
			continue
		}
		k := xv.groupKey()
		g, ok := groups[k]
		if !ok {
			g = &aggregate{x: xv}
			groups[k] = g
			order = append(order, g)
		}
		g.add(y.at(row))
	}
	sort.SliceStable(order, func(i, j int) bool { return order[i].x.less(order[j].x) })
	out := make([]*Record, len(order))
	for i, g := range order {
		rec := orderedmap.New[string, any]()
		rec.Set(x.name, g.x.json())
		rec.Set(y.name, g.result(y))
		out[i] = rec
	}
	return out
}

func heatmapRecords(t *Table, x, y, v axis) []*Record {
	groups := map[[2]string]*aggregate{}
	var order []*aggregate
	for _, row := range t.Rows {
		xv, yv := x.at(row), y.at(row)
		if xv.missing || yv.missing {
			continue
		}
		k := [2]string{xv.groupKey(), yv.groupKey()}
		g, ok := groups[k]
		if !ok {
			g = &aggregate{x: xv, y: yv}
			groups[k] = g
			order = append(order, g)
		}
		g.add(v.at(row))
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.x.less(b.x) {
			return true
		}
		if b.x.less(a.x) {
			return false
		}
		return a.y.less(b.y)
	})
	out := make([]*Record, len(order))
	for i, g := range order {
		rec := orderedmap.New[string, any]()
		rec.Set(x.name, g.x.json())
		rec.Set(y.name, g.y.json())
		rec.Set(v.name, g.result(v))
		out[i] = rec
	}
	return out
}

package rebalance

// Point is one (label, value) pair of a chart series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is the hand-off to chart renderers: plain numbers aligned to a
// single asset ordering.
type Series struct {
	Labels  []string  `json:"labels"`
	Current []float64 `json:"current"`
	Target  []float64 `json:"target"`
	Delta   []float64 `json:"delta"`
}

// Heatmap columns, in order.
const (
	ColumnCurrent = "current"
	ColumnTarget  = "target"
	ColumnDelta   = "delta"
)

// Heatmap is a row-per-asset matrix of current, target and delta values.
type Heatmap struct {
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Cells   [][]float64 `json:"cells"`
}

// Series converts the result into float series.
func (r *Result) Series() Series {
	n := len(r.Lines)
	s := Series{
		Labels:  make([]string, n),
		Current: make([]float64, n),
		Target:  make([]float64, n),
		Delta:   make([]float64, n),
	}
	for i, l := range r.Lines {
		s.Labels[i] = string(l.Asset)
		s.Current[i] = l.Current.InexactFloat64()
		s.Target[i] = l.Target.InexactFloat64()
		s.Delta[i] = l.Delta.InexactFloat64()
	}
	return s
}

// Targets returns (label, target value) pairs.
func (s Series) Targets() []Point { return points(s.Labels, s.Target) }

// Deltas returns (label, delta) pairs.
func (s Series) Deltas() []Point { return points(s.Labels, s.Delta) }

// CurrentValues returns (label, current value) pairs.
func (s Series) CurrentValues() []Point { return points(s.Labels, s.Current) }

// Heatmap arranges the series as a matrix.
func (s Series) Heatmap() Heatmap {
	h := Heatmap{
		Rows:    append([]string(nil), s.Labels...),
		Columns: []string{ColumnCurrent, ColumnTarget, ColumnDelta},
		Cells:   make([][]float64, len(s.Labels)),
	}
	for i := range s.Labels {
		h.Cells[i] = []float64{s.Current[i], s.Target[i], s.Delta[i]}
	}
	return h
}

func points(labels []string, values []float64) []Point {
	out := make([]Point, len(labels))
	for i, l := range labels {
		out[i] = Point{Label: l, Value: values[i]}
	}
	return out
}

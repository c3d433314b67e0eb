package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram holds equal-width bin counts. Edges has one more entry than Counts.
type Histogram struct {
	Edges  []float64
	Counts []float64
}

// NewHistogram bins values into the given number of equal-width bins spanning
// [min, max]. Non-finite values are ignored. A constant input is widened by
// half a unit on both sides.
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins < 1 {
		return Histogram{}, fmt.Errorf("invalid bin count %d", bins)
	}
	sorted, _ := finite(values)
	if len(sorted) == 0 {
		return Histogram{}, ErrEmpty
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram wants the upper edge strictly above the largest value
	edges[bins] = math.Nextafter(edges[bins], math.Inf(1))

	counts := stat.Histogram(nil, edges, sorted, nil)
	return Histogram{Edges: edges, Counts: counts}, nil
}

// Total returns the number of binned values.
func (h Histogram) Total() float64 {
	return floats.Sum(h.Counts)
}

// Mode returns the center of the most populated bin.
func (h Histogram) Mode() float64 {
	if len(h.Counts) == 0 {
		return math.NaN()
	}
	i := floats.MaxIdx(h.Counts)
	return (h.Edges[i] + h.Edges[i+1]) / 2
}

package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"salesdash/internal/models"
)

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedFloats(xs []float64) []float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return sorted
}

// sampleStd is the n-1 standard deviation; NaN below two values.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.StdDev(xs, nil)
}

// quantile expects sorted input and interpolates at rank q*(n-1), as pandas
// describe() does. gonum's stat.Quantile(LinInterp) ranks at q*n and differs
// on small samples.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// describe computes count, mean, std, min, quartiles and max of xs.
func describe(column string, xs []float64) models.SummaryStat {
	s := models.SummaryStat{Column: column, Count: len(xs)}
	if len(xs) == 0 {
		return s
	}
	sorted := sortedFloats(xs)

	s.Mean = stat.Mean(xs, nil)
	s.Std = finite(sampleStd(xs))
	s.Min = sorted[0]
	s.P25 = quantile(sorted, 0.25)
	s.P50 = quantile(sorted, 0.50)
	s.P75 = quantile(sorted, 0.75)
	s.Max = sorted[len(sorted)-1]
	return s
}

// pearson returns the linear correlation of x and y, NaN when undefined.
func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	if floats.Min(x) == floats.Max(x) || floats.Min(y) == floats.Max(y) {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	// Clamp rounding drift.
	return math.Max(-1, math.Min(1, r))
}

// histogram splits xs into equal-width bins over [min, max].
func histogram(column string, xs []float64, bins int) models.Histogram {
	h := models.Histogram{Column: column, Bins: []models.Bin{}}
	if len(xs) == 0 || bins <= 0 {
		return h
	}
	sorted := sortedFloats(xs)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		h.Bins = append(h.Bins, models.Bin{Low: lo, High: hi, Count: len(xs)})
		return h
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram treats the last divider as exclusive; nudge it so max lands in the last bin.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	h.Bins = make([]models.Bin, bins)
	for i := range h.Bins {
		h.Bins[i] = models.Bin{Low: edges[i], High: edges[i+1], Count: int(counts[i])}
	}
	return h
}

func boxStats(key string, xs []float64) models.BoxStats {
	sorted := sortedFloats(xs)
	b := models.BoxStats{Key: key, Count: len(xs)}
	if len(sorted) == 0 {
		return b
	}
	b.Min = sorted[0]
	b.Q1 = quantile(sorted, 0.25)
	b.Median = quantile(sorted, 0.50)
	b.Q3 = quantile(sorted, 0.75)
	b.Max = sorted[len(sorted)-1]
	return b
}

// finite maps NaN and Inf to nil so values survive JSON encoding.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

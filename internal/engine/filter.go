package engine

import (
	"cmp"
	"sort"
)

// Selection is a filter on one dimension: either unrestricted (the zero value)
// or restricted to a set of values. A restriction to the empty set matches nothing.
type Selection[T cmp.Ordered] struct {
	restricted bool
	values     map[T]struct{}
}

// Unrestricted returns a selection that matches every value.
func Unrestricted[T cmp.Ordered]() Selection[T] {
	return Selection[T]{}
}

// RestrictedTo returns a selection matching only the given values.
func RestrictedTo[T cmp.Ordered](values ...T) Selection[T] {
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return Selection[T]{restricted: true, values: set}
}

// IsRestricted reports whether the selection constrains the dimension.
func (s Selection[T]) IsRestricted() bool { return s.restricted }

// Allows reports whether v passes the selection.
func (s Selection[T]) Allows(v T) bool {
	if !s.restricted {
		return true
	}
	_, ok := s.values[v]
	return ok
}

// Values returns the selected values in ascending order; nil when unrestricted.
func (s Selection[T]) Values() []T {
	if !s.restricted {
		return nil
	}
	out := make([]T, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Range is an inclusive Sales_Amount interval.
type Range struct {
	Low  float64
	High float64
}

// Contains reports whether v is within [Low, High].
func (r Range) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Filters is the active predicate set. The zero value selects every row.
type Filters struct {
	Countries Selection[string]
	Products  Selection[string]
	// Amount defaults to the dataset's observed bounds when nil.
	Amount  *Range
	Quarter Selection[int]
	Month   Selection[string]
}

// View is an ordered subsequence of dataset rows.
type View struct {
	ds   *Dataset
	rows []int
}

// All returns a view over every row of ds.
func All(ds *Dataset) View {
	rows := make([]int, ds.Len())
	for i := range rows {
		rows[i] = i
	}
	return View{ds: ds, rows: rows}
}

func (v View) Len() int            { return len(v.rows) }
func (v View) Empty() bool         { return len(v.rows) == 0 }
func (v View) Dataset() *Dataset   { return v.ds }
func (v View) Row(i int) int       { return v.rows[i] }
func (v View) Record(i int) Record { return v.ds.Record(v.rows[i]) }

// Slice returns the sub-view [from, to).
func (v View) Slice(from, to int) View {
	return View{ds: v.ds, rows: v.rows[from:to]}
}

// Apply filters the full dataset. Predicates are AND-combined and evaluated in
// a single pass; categorical selections are resolved to dictionary IDs first.
func Apply(ds *Dataset, f Filters) View {
	amount := ds.AmountBounds()
	rng := Range{Low: amount.Min, High: amount.Max}
	if f.Amount != nil {
		rng = *f.Amount
	}

	countries := allowedIDs(ds.CountryDict, f.Countries)
	products := allowedIDs(ds.ProductDict, f.Products)
	months := allowedIDs(ds.MonthDict, f.Month)

	n := ds.Len()
	rows := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if countries != nil && !countries[ds.CountryIDs[i]] {
			continue
		}
		if products != nil && !products[ds.ProductIDs[i]] {
			continue
		}
		if !rng.Contains(ds.Amounts[i]) {
			continue
		}
		if !f.Quarter.Allows(int(ds.Quarters[i])) {
			continue
		}
		if months != nil && !months[ds.MonthIDs[i]] {
			continue
		}
		rows = append(rows, i)
	}

	return View{ds: ds, rows: rows}
}

// allowedIDs maps a selection onto a dictionary. Nil means unrestricted.
func allowedIDs(dict []string, s Selection[string]) []bool {
	if !s.IsRestricted() {
		return nil
	}
	ids := make([]bool, len(dict))
	for id, v := range dict {
		ids[id] = s.Allows(v)
	}
	return ids
}

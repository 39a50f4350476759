package engine

import (
	"cmp"

	"golang.org/x/exp/slices"

	"salesdash/internal/models"
)

// Dimension is a categorical column a view can be grouped by.
type Dimension int

const (
	DimProduct Dimension = iota
	DimSalesperson
	DimCountry
	DimMonth
	DimDay
)

func (d Dimension) String() string {
	switch d {
	case DimProduct:
		return ColProduct
	case DimSalesperson:
		return ColSalesperson
	case DimCountry:
		return ColCountry
	case DimMonth:
		return ColMonth
	case DimDay:
		return ColDay
	default:
		return "unknown"
	}
}

func (ds *Dataset) column(d Dimension) ([]int32, []string) {
	switch d {
	case DimProduct:
		return ds.ProductIDs, ds.ProductDict
	case DimSalesperson:
		return ds.SalespersonIDs, ds.SalespersonDict
	case DimCountry:
		return ds.CountryIDs, ds.CountryDict
	case DimMonth:
		return ds.MonthIDs, ds.MonthDict
	case DimDay:
		return ds.DayIDs, ds.DayDict
	default:
		return nil, nil
	}
}

type aggStats struct {
	Rev   float64
	Boxes int64
	Trans int
}

// GroupTotals sums Sales_Amount and Boxes_Shipped per group of d,
// in the order groups are first encountered in the view.
func GroupTotals(v View, d Dimension) []models.GroupTotal {
	ids, dict := v.ds.column(d)

	// One slot per dictionary entry; no hashing in the loop.
	slots := make([]aggStats, len(dict))
	order := make([]int32, 0, len(dict))
	for _, row := range v.rows {
		id := ids[row]
		if slots[id].Trans == 0 {
			order = append(order, id)
		}
		slots[id].Rev += v.ds.Amounts[row]
		slots[id].Boxes += v.ds.Boxes[row]
		slots[id].Trans++
	}

	out := make([]models.GroupTotal, 0, len(order))
	for _, id := range order {
		out = append(out, models.GroupTotal{
			Key:          dict[id],
			SalesAmount:  slots[id].Rev,
			BoxesShipped: slots[id].Boxes,
			Transactions: slots[id].Trans,
		})
	}
	return out
}

// SortBySales returns a copy sorted by Sales_Amount descending. Ties keep input order.
func SortBySales(groups []models.GroupTotal) []models.GroupTotal {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b models.GroupTotal) int {
		return cmp.Compare(b.SalesAmount, a.SalesAmount)
	})
	return out
}

// SortByBoxes returns a copy sorted by Boxes_Shipped descending. Ties keep input order.
func SortByBoxes(groups []models.GroupTotal) []models.GroupTotal {
	out := slices.Clone(groups)
	slices.SortStableFunc(out, func(a, b models.GroupTotal) int {
		return cmp.Compare(b.BoxesShipped, a.BoxesShipped)
	})
	return out
}

// Top truncates to the first n groups; n <= 0 keeps all.
func Top(groups []models.GroupTotal, n int) []models.GroupTotal {
	if n > 0 && len(groups) > n {
		return groups[:n]
	}
	return groups
}

// Metrics computes the key metric cards. An empty view yields zeros.
func Metrics(v View) models.KeyMetrics {
	var m models.KeyMetrics
	for _, row := range v.rows {
		m.TotalSales += v.ds.Amounts[row]
		m.TotalBoxes += v.ds.Boxes[row]
	}
	if n := v.Len(); n > 0 {
		m.AverageSales = m.TotalSales / float64(n)
		m.AverageBoxes = float64(m.TotalBoxes) / float64(n)
	}
	m.TotalSalesLabel = FormatCurrency(m.TotalSales)
	m.AvgSalesLabel = FormatCurrency(m.AverageSales)
	m.TotalBoxesLabel = FormatInt(m.TotalBoxes)
	m.AvgBoxesLabel = FormatDecimal(m.AverageBoxes)
	return m
}

// DistributionOf computes the summary statistics, distinct counts and histograms.
func DistributionOf(v View, bins int) models.Distribution {
	amounts := v.amounts()
	boxes := v.boxes()
	return models.Distribution{
		Summary: []models.SummaryStat{
			describe(ColSalesAmount, amounts),
			describe(ColBoxesShipped, boxes),
		},
		Categorical: UniqueCounts(v),
		Sales:       histogram(ColSalesAmount, amounts, bins),
		Boxes:       histogram(ColBoxesShipped, boxes, bins),
	}
}

// UniqueCounts returns the number of distinct values per categorical column.
func UniqueCounts(v View) []models.UniqueCount {
	out := []models.UniqueCount{
		{Column: ColSalesperson, Unique: v.distinctIDs(v.ds.SalespersonIDs, len(v.ds.SalespersonDict))},
		{Column: ColCountry, Unique: v.distinctIDs(v.ds.CountryIDs, len(v.ds.CountryDict))},
		{Column: ColProduct, Unique: v.distinctIDs(v.ds.ProductIDs, len(v.ds.ProductDict))},
	}

	dates := make(map[int32]struct{})
	for _, row := range v.rows {
		dates[int32(v.ds.Dates[row])] = struct{}{}
	}
	out = append(out,
		models.UniqueCount{Column: ColDate, Unique: len(dates)},
		models.UniqueCount{Column: ColMonth, Unique: v.distinctIDs(v.ds.MonthIDs, len(v.ds.MonthDict))},
		models.UniqueCount{Column: ColDay, Unique: v.distinctIDs(v.ds.DayIDs, len(v.ds.DayDict))},
	)
	return out
}

// TimeOf sums Sales_Amount by month and by weekday, largest first.
func TimeOf(v View) models.TimeAnalysis {
	return models.TimeAnalysis{
		ByMonth: SortBySales(GroupTotals(v, DimMonth)),
		ByDay:   SortBySales(GroupTotals(v, DimDay)),
	}
}

// PerformanceOf ranks the groups of d by sales and by boxes, keeping topN of
// each (0 keeps all), plus the per-group spread of Boxes_Shipped.
func PerformanceOf(v View, d Dimension, topN int) models.Performance {
	groups := GroupTotals(v, d)
	return models.Performance{
		Dimension: d.String(),
		BySales:   Top(SortBySales(groups), topN),
		ByBoxes:   Top(SortByBoxes(groups), topN),
		Spread:    boxSpread(v, d),
	}
}

func boxSpread(v View, d Dimension) []models.BoxStats {
	ids, dict := v.ds.column(d)
	values := make([][]float64, len(dict))
	order := make([]int32, 0, len(dict))
	for _, row := range v.rows {
		id := ids[row]
		if values[id] == nil {
			order = append(order, id)
		}
		values[id] = append(values[id], float64(v.ds.Boxes[row]))
	}
	out := make([]models.BoxStats, 0, len(order))
	for _, id := range order {
		out = append(out, boxStats(dict[id], values[id]))
	}
	return out
}

// CorrelationOf returns the Pearson matrix of Sales_Amount, Boxes_Shipped and
// Quarter, rounded to 2 decimals. Undefined coefficients are nil.
func CorrelationOf(v View) models.CorrelationMatrix {
	cols := [][]float64{v.amounts(), v.boxes(), v.quarters()}
	names := []string{ColSalesAmount, ColBoxesShipped, ColQuarter}

	values := make([][]*float64, len(cols))
	for i := range cols {
		values[i] = make([]*float64, len(cols))
		for j := range cols {
			values[i][j] = finite(RoundTo2(pearson(cols[i], cols[j])))
		}
	}
	return models.CorrelationMatrix{Columns: names, Values: values}
}

func (v View) amounts() []float64 {
	out := make([]float64, len(v.rows))
	for i, row := range v.rows {
		out[i] = v.ds.Amounts[row]
	}
	return out
}

func (v View) boxes() []float64 {
	out := make([]float64, len(v.rows))
	for i, row := range v.rows {
		out[i] = float64(v.ds.Boxes[row])
	}
	return out
}

func (v View) quarters() []float64 {
	out := make([]float64, len(v.rows))
	for i, row := range v.rows {
		out[i] = float64(v.ds.Quarters[row])
	}
	return out
}

func (v View) distinctIDs(ids []int32, size int) int {
	seen := make([]bool, size)
	n := 0
	for _, row := range v.rows {
		if id := ids[row]; !seen[id] {
			seen[id] = true
			n++
		}
	}
	return n
}

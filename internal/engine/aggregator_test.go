package engine

import (
	"testing"
)

func TestGroupTotals(t *testing.T) {
	// 1. Setup Mock Data
	ds := sampleDataset()
	v := All(ds)

	// 2. Run Aggregation
	groups := GroupTotals(v, DimCountry)

	// 3. Assertions

	// Encounter order: Germany, France, UK
	if len(groups) != 3 {
		t.Fatalf("Expected 3 country groups, got %d", len(groups))
	}
	if groups[0].Key != "Germany" || groups[1].Key != "France" || groups[2].Key != "UK" {
		t.Errorf("Unexpected encounter order: %v", groups)
	}
	// Germany Rev=300 (100+200), Boxes=15, 2 transactions
	if groups[0].SalesAmount != 300 || groups[0].BoxesShipped != 15 || groups[0].Transactions != 2 {
		t.Errorf("Germany totals incorrect: %+v", groups[0])
	}

	// Germany and UK tie at 300; Germany was seen first and stays first.
	bySales := SortBySales(groups)
	if bySales[0].Key != "Germany" || bySales[1].Key != "UK" || bySales[2].Key != "France" {
		t.Errorf("Unexpected sales order: %v", bySales)
	}

	byBoxes := SortByBoxes(groups)
	if byBoxes[0].Key != "France" || byBoxes[0].BoxesShipped != 50 {
		t.Errorf("Expected France first by boxes, got %+v", byBoxes[0])
	}

	// Sorting must not reorder the input.
	if groups[0].Key != "Germany" || groups[1].Key != "France" {
		t.Error("SortBySales mutated its input")
	}

	if got := Top(bySales, 2); len(got) != 2 {
		t.Errorf("Top(2) returned %d groups", len(got))
	}
	if got := Top(bySales, 0); len(got) != 3 {
		t.Errorf("Top(0) should keep all, got %d", len(got))
	}
}

func TestGroupTotalsConservation(t *testing.T) {
	ds := sampleDataset()
	v := Apply(ds, Filters{Products: RestrictedTo("ProdA", "ProdB")})

	want := Metrics(v).TotalSales
	for _, d := range []Dimension{DimProduct, DimSalesperson, DimCountry, DimMonth, DimDay} {
		var sum float64
		for _, g := range GroupTotals(v, d) {
			sum += g.SalesAmount
		}
		if sum != want {
			t.Errorf("%s: grouped sum %v != view total %v", d, sum, want)
		}
	}
}

func TestTimeOf(t *testing.T) {
	tm := TimeOf(All(sampleDataset()))

	// January(100+200) ties August(300); January seen first.
	wantMonths := []string{"January", "August", "February", "May"}
	if len(tm.ByMonth) != len(wantMonths) {
		t.Fatalf("Expected %d months, got %d", len(wantMonths), len(tm.ByMonth))
	}
	for i, m := range wantMonths {
		if tm.ByMonth[i].Key != m {
			t.Errorf("ByMonth[%d] = %s, want %s", i, tm.ByMonth[i].Key, m)
		}
	}

	if tm.ByDay[0].Key != "Friday" || tm.ByDay[0].SalesAmount != 500 {
		t.Errorf("Expected Friday 500 first, got %+v", tm.ByDay[0])
	}
}

func TestMetrics(t *testing.T) {
	m := Metrics(All(sampleDataset()))

	if m.TotalSales != 850 || m.AverageSales != 170 {
		t.Errorf("sales metrics incorrect: %+v", m)
	}
	if m.TotalBoxes != 66 || m.AverageBoxes != 13.2 {
		t.Errorf("boxes metrics incorrect: %+v", m)
	}
	if m.TotalSalesLabel != "$850.00" || m.TotalBoxesLabel != "66" || m.AvgBoxesLabel != "13.20" {
		t.Errorf("labels incorrect: %+v", m)
	}

	empty := Metrics(Apply(sampleDataset(), Filters{Countries: RestrictedTo[string]()}))
	if empty.TotalSales != 0 || empty.AverageSales != 0 {
		t.Errorf("empty view should yield zeros, got %+v", empty)
	}
}

func TestPerformanceOf(t *testing.T) {
	p := PerformanceOf(All(sampleDataset()), DimProduct, 2)

	if p.Dimension != ColProduct {
		t.Errorf("Dimension = %s", p.Dimension)
	}
	if len(p.BySales) != 2 || p.BySales[0].Key != "ProdB" || p.BySales[1].Key != "ProdC" {
		t.Errorf("BySales incorrect: %v", p.BySales)
	}
	if len(p.ByBoxes) != 2 || p.ByBoxes[0].Key != "ProdB" || p.ByBoxes[1].Key != "ProdA" {
		t.Errorf("ByBoxes incorrect: %v", p.ByBoxes)
	}

	// Spread is untruncated. ProdA boxes: 10, 20
	if len(p.Spread) != 3 {
		t.Fatalf("Expected spread for 3 products, got %d", len(p.Spread))
	}
	a := p.Spread[0]
	if a.Key != "ProdA" || a.Min != 10 || a.Q1 != 12.5 || a.Median != 15 || a.Q3 != 17.5 || a.Max != 20 {
		t.Errorf("ProdA spread incorrect: %+v", a)
	}
}

func TestUniqueCounts(t *testing.T) {
	got := UniqueCounts(All(sampleDataset()))
	want := map[string]int{
		ColSalesperson: 3,
		ColCountry:     3,
		ColProduct:     3,
		ColDate:        5,
		ColMonth:       4,
		ColDay:         3,
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d columns, got %d", len(want), len(got))
	}
	for _, u := range got {
		if want[u.Column] != u.Unique {
			t.Errorf("%s: expected %d unique, got %d", u.Column, want[u.Column], u.Unique)
		}
	}
}

func TestCorrelationOf(t *testing.T) {
	m := CorrelationOf(All(sampleDataset()))

	if len(m.Values) != 3 {
		t.Fatalf("Expected 3x3 matrix, got %d rows", len(m.Values))
	}
	for i := range m.Values {
		if m.Values[i][i] == nil || *m.Values[i][i] != 1 {
			t.Errorf("diagonal [%d] should be 1.00", i)
		}
		for j := range m.Values {
			a, b := m.Values[i][j], m.Values[j][i]
			if a == nil || b == nil || *a != *b {
				t.Errorf("matrix not symmetric at %d,%d", i, j)
			}
		}
	}

	// Quarter is constant within Q1, so its coefficients are undefined.
	q1 := CorrelationOf(Apply(sampleDataset(), Filters{Quarter: RestrictedTo(1)}))
	if q1.Values[2][2] != nil || q1.Values[0][2] != nil {
		t.Error("Quarter coefficients should be nil for a constant column")
	}
	if q1.Values[0][0] == nil {
		t.Error("Sales_Amount diagonal should be defined")
	}
}

// Package chart turns dashboard aggregates into render-ready chart specs.
package chart

import (
	"salesdash/internal/engine"
	"salesdash/internal/models"
)

// Palette is the dashboard color sequence.
var Palette = []string{
	"#fc6601", "#fa812a", "#8b4000", "#faa602", "#f6a001", "#daa520", "#eb9605", "#883001",
}

// Tabs in display order.
const (
	TabDistribution = "distribution"
	TabTime         = "time"
	TabProducts     = "products"
	TabSalespersons = "salespersons"
	TabCountries    = "countries"
	TabCorrelation  = "correlation"
)

// Build produces every chart for d. A no-data report has no charts.
func Build(d *models.DashboardData) []models.Chart {
	if d == nil || d.NoData {
		return []models.Chart{}
	}

	var charts []models.Chart
	if d.Distribution != nil {
		charts = append(charts,
			histogramChart("sales-histogram", "Sales Amount Distribution", d.Distribution.Sales, Palette[0]),
			histogramChart("boxes-histogram", "Boxes Shipped Distribution", d.Distribution.Boxes, Palette[3]),
		)
	}
	if d.Time != nil {
		charts = append(charts,
			lineChart("monthly-trend", "Monthly Sales Trends", engine.ColMonth, d.Time.ByMonth, Palette[2]),
			lineChart("daily-trend", "Daily Sales Trends", engine.ColDay, d.Time.ByDay, Palette[4]),
		)
	}
	if d.Products != nil {
		charts = append(charts, performanceCharts(TabProducts, "Products", *d.Products, true)...)
	}
	if d.Salespersons != nil {
		charts = append(charts, performanceCharts(TabSalespersons, "Salespersons", *d.Salespersons, true)...)
	}
	if d.Countries != nil {
		charts = append(charts, performanceCharts(TabCountries, "Country", *d.Countries, false)...)
	}
	if d.Correlation != nil {
		charts = append(charts, models.Chart{
			ID:     "correlation-heatmap",
			Tab:    TabCorrelation,
			Type:   "heatmap",
			Title:  "Feature Correlation Heatmap",
			Matrix: d.Correlation,
			Colors: Palette,
		})
	}
	return charts
}

// ForTab filters charts to one tab.
func ForTab(charts []models.Chart, tab string) []models.Chart {
	out := make([]models.Chart, 0, 3)
	for _, c := range charts {
		if c.Tab == tab {
			out = append(out, c)
		}
	}
	return out
}

func histogramChart(id, title string, h models.Histogram, color string) models.Chart {
	return models.Chart{
		ID:     id,
		Tab:    TabDistribution,
		Type:   "histogram",
		Title:  title,
		XAxis:  h.Column,
		YAxis:  "count",
		Bins:   h.Bins,
		Colors: []string{color},
	}
}

func lineChart(id, title, xAxis string, groups []models.GroupTotal, color string) models.Chart {
	return models.Chart{
		ID:     id,
		Tab:    TabTime,
		Type:   "line",
		Title:  title,
		XAxis:  xAxis,
		YAxis:  engine.ColSalesAmount,
		Series: []models.ChartSeries{salesSeries(groups)},
		Colors: []string{color},
	}
}

// performanceCharts builds the bar, pie and box charts of one grouping.
// Ranked groupings say "Top" in their titles.
func performanceCharts(tab, noun string, p models.Performance, ranked bool) []models.Chart {
	barTitle := "Total Sales by " + noun
	pieTitle := "Boxes Shipped by " + noun
	if ranked {
		barTitle = "Top " + noun + " by Sales Amount"
		pieTitle = "Top 10 " + noun + " by Boxes Shipped"
	}

	return []models.Chart{
		{
			ID:     tab + "-sales-bar",
			Tab:    tab,
			Type:   "bar",
			Title:  barTitle,
			XAxis:  p.Dimension,
			YAxis:  engine.ColSalesAmount,
			Series: []models.ChartSeries{salesSeries(p.BySales)},
			Colors: assignColors(len(p.BySales)),
		},
		{
			ID:     tab + "-boxes-pie",
			Tab:    tab,
			Type:   "pie",
			Title:  pieTitle,
			Series: []models.ChartSeries{boxesSeries(p.ByBoxes)},
			Colors: assignColors(len(p.ByBoxes)),
		},
		{
			ID:     tab + "-boxes-spread",
			Tab:    tab,
			Type:   "box",
			Title:  "Boxes Shipped Distribution by " + p.Dimension,
			XAxis:  p.Dimension,
			YAxis:  engine.ColBoxesShipped,
			Boxes:  p.Spread,
			Colors: assignColors(len(p.Spread)),
		},
	}
}

func salesSeries(groups []models.GroupTotal) models.ChartSeries {
	points := make([]models.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.ChartPoint{Label: g.Key, Value: engine.RoundTo2(g.SalesAmount)})
	}
	return models.ChartSeries{Name: engine.ColSalesAmount, Points: points}
}

func boxesSeries(groups []models.GroupTotal) models.ChartSeries {
	points := make([]models.ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, models.ChartPoint{Label: g.Key, Value: float64(g.BoxesShipped)})
	}
	return models.ChartSeries{Name: engine.ColBoxesShipped, Points: points}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := range colors {
		colors[i] = Palette[i%len(Palette)]
	}
	return colors
}

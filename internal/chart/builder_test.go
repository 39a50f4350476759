package chart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesdash/internal/engine"
)

func TestBuild(t *testing.T) {
	ds := engine.NewDataset([]engine.Record{
		{Salesperson: "Ann", Country: "US", Product: "Mint", Date: time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC), SalesAmount: 100.456, BoxesShipped: 10},
		{Salesperson: "Ben", Country: "UK", Product: "Dark", Date: time.Date(2022, 4, 4, 0, 0, 0, 0, time.UTC), SalesAmount: 200, BoxesShipped: 20},
	})
	d, err := engine.BuildDashboard(context.Background(), engine.All(ds))
	require.NoError(t, err)

	charts := Build(d)
	require.Len(t, charts, 14)

	ids := make(map[string]bool, len(charts))
	for _, c := range charts {
		assert.False(t, ids[c.ID], "duplicate chart id %s", c.ID)
		ids[c.ID] = true
		assert.NotEmpty(t, c.Colors, c.ID)
	}

	products := ForTab(charts, TabProducts)
	require.Len(t, products, 3)
	assert.Equal(t, "Top Products by Sales Amount", products[0].Title)
	assert.Equal(t, "bar", products[0].Type)
	points := products[0].Series[0].Points
	assert.Equal(t, "Dark", points[0].Label)
	assert.Equal(t, 100.46, points[1].Value)
	assert.Equal(t, []string{Palette[0], Palette[1]}, products[0].Colors)

	countries := ForTab(charts, TabCountries)
	assert.Equal(t, "Total Sales by Country", countries[0].Title)

	heatmap := ForTab(charts, TabCorrelation)
	require.Len(t, heatmap, 1)
	assert.NotNil(t, heatmap[0].Matrix)

	assert.Empty(t, ForTab(charts, "unknown"))
}

func TestBuildNoData(t *testing.T) {
	assert.Empty(t, Build(engine.NoData()))
	assert.Empty(t, Build(nil))
}

func TestAssignColorsWraps(t *testing.T) {
	colors := assignColors(len(Palette) + 2)
	assert.Equal(t, Palette[0], colors[len(Palette)])
	assert.Equal(t, Palette[1], colors[len(Palette)+1])
}

package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	d, err := BuildDashboard(context.Background(), All(sampleDataset()))
	require.NoError(t, err)

	assert.False(t, d.NoData)
	assert.Empty(t, d.Notice)
	assert.Equal(t, 5, d.Records)
	require.NotNil(t, d.Metrics)
	assert.Equal(t, 850.0, d.Metrics.TotalSales)

	require.NotNil(t, d.Distribution)
	assert.Len(t, d.Distribution.Summary, 2)
	assert.Len(t, d.Distribution.Categorical, 6)

	require.NotNil(t, d.Products)
	assert.Equal(t, "ProdB", d.Products.BySales[0].Key)
	require.NotNil(t, d.Salespersons)
	assert.Equal(t, "Bob", d.Salespersons.BySales[0].Key)
	require.NotNil(t, d.Countries)
	assert.Len(t, d.Countries.BySales, 3)
	require.NotNil(t, d.Correlation)
	assert.Equal(t, []string{ColSalesAmount, ColBoxesShipped, ColQuarter}, d.Correlation.Columns)
}

func TestBuildDashboardTopN(t *testing.T) {
	// 12 products and 12 salespersons with distinct totals.
	var records []Record
	for i := 0; i < 12; i++ {
		records = append(records, Record{
			Salesperson:  fmt.Sprintf("Rep %02d", i),
			Country:      fmt.Sprintf("Country %02d", i),
			Product:      fmt.Sprintf("Bar %02d", i),
			Date:         day(2022, time.March, 1+i),
			SalesAmount:  float64(100 * (i + 1)),
			BoxesShipped: int64(i + 1),
		})
	}
	v := All(NewDataset(records))

	d, err := BuildDashboard(context.Background(), v)
	require.NoError(t, err)
	assert.Len(t, d.Products.BySales, 10)
	assert.Len(t, d.Salespersons.ByBoxes, 10)
	assert.Equal(t, "Bar 11", d.Products.BySales[0].Key)
	// Countries are never truncated.
	assert.Len(t, d.Countries.BySales, 12)

	d, err = BuildDashboard(context.Background(), v, WithTopN(3), WithHistogramBins(4))
	require.NoError(t, err)
	assert.Len(t, d.Products.BySales, 3)
	assert.Len(t, d.Distribution.Sales.Bins, 4)
}

func TestBuildDashboardCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildDashboard(ctx, All(sampleDataset()))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoData(t *testing.T) {
	d := NoData()
	assert.True(t, d.NoData)
	assert.Equal(t, "No data available for selected filters.", d.Notice)
	assert.Zero(t, d.Records)
}

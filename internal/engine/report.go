package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"salesdash/internal/models"
)

// Option configures report construction.
type Option func(*config)

type config struct {
	TopN          int
	HistogramBins int
}

// WithTopN sets how many Product and Salesperson groups are ranked.
func WithTopN(n int) Option {
	return func(c *config) { c.TopN = n }
}

// WithHistogramBins sets the number of histogram bins.
func WithHistogramBins(n int) Option {
	return func(c *config) { c.HistogramBins = n }
}

func applyOptions(opts []Option) *config {
	cfg := &config{
		TopN:          10,
		HistogramBins: 20,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// NoData is the report for an empty view.
func NoData() *models.DashboardData {
	return &models.DashboardData{NoData: true, Notice: models.NoDataNotice}
}

// BuildDashboard computes every analysis over v. An empty view short-circuits
// to the no-data notice without computing any aggregate.
// The analyses only read v, so they run concurrently.
func BuildDashboard(ctx context.Context, v View, opts ...Option) (*models.DashboardData, error) {
	if v.Empty() {
		return NoData(), nil
	}
	cfg := applyOptions(opts)

	var (
		metrics      models.KeyMetrics
		distribution models.Distribution
		timing       models.TimeAnalysis
		products     models.Performance
		salespersons models.Performance
		countries    models.Performance
		correlation  models.CorrelationMatrix
	)

	g, ctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { metrics = Metrics(v) })
	run(func() { distribution = DistributionOf(v, cfg.HistogramBins) })
	run(func() { timing = TimeOf(v) })
	run(func() { products = PerformanceOf(v, DimProduct, cfg.TopN) })
	run(func() { salespersons = PerformanceOf(v, DimSalesperson, cfg.TopN) })
	run(func() { countries = PerformanceOf(v, DimCountry, 0) })
	run(func() { correlation = CorrelationOf(v) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.DashboardData{
		Records:      v.Len(),
		Metrics:      &metrics,
		Distribution: &distribution,
		Time:         &timing,
		Products:     &products,
		Salespersons: &salespersons,
		Countries:    &countries,
		Correlation:  &correlation,
	}, nil
}

package api

import (
	"bytes"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"salesdash/internal/chart"
	"salesdash/internal/engine"
	"salesdash/internal/models"
)

const (
	dateFormat      = "2006-01-02"
	maxPageLimit    = 1000
	arrowStreamType = "application/vnd.apache.arrow.stream"
)

// Settings tunes the analyses served by the handler.
type Settings struct {
	TopN          int
	HistogramBins int
}

type Handler struct {
	data     atomic.Pointer[engine.Dataset]
	log      *zap.Logger
	settings Settings
}

// NewHandler returns a handler over ds. A nil ds answers 503 until SetData.
func NewHandler(ds *engine.Dataset, logger *zap.Logger, settings Settings) *Handler {
	h := &Handler{log: logger, settings: settings}
	if ds != nil {
		h.data.Store(ds)
	}
	return h
}

// SetData publishes the loaded dataset.
func (h *Handler) SetData(ds *engine.Dataset) {
	h.data.Store(ds)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api", h.requireData)
	api.GET("/options", h.GetOptions)
	api.GET("/dashboard", h.GetDashboard)
	api.GET("/metrics", h.GetMetrics)
	api.GET("/distribution", h.GetDistribution)
	api.GET("/time", h.GetTime)
	api.GET("/products", h.GetProducts)
	api.GET("/salespersons", h.GetSalespersons)
	api.GET("/countries", h.GetCountries)
	api.GET("/correlation", h.GetCorrelation)
	api.GET("/charts", h.GetCharts)
	api.GET("/records", h.GetRecords)
	api.GET("/export.arrow", h.ExportArrow)
}

func (h *Handler) requireData(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.data.Load() == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is still loading")
		}
		return next(c)
	}
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *Handler) Health(c echo.Context) error {
	ds := h.data.Load()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"ready":  ds != nil,
		"rows":   ds.Len(),
	})
}

// view applies the request's filters to the full dataset.
func (h *Handler) view(c echo.Context) (engine.View, error) {
	ds := h.data.Load()
	f, err := parseFilters(c.QueryParams(), ds)
	if err != nil {
		return engine.View{}, err
	}
	v := engine.Apply(ds, f)
	h.log.Debug("filters applied",
		zap.String("path", c.Path()),
		zap.Int("rows", v.Len()),
		zap.Int("total", ds.Len()),
	)
	return v, nil
}

func (h *Handler) GetOptions(c echo.Context) error {
	ds := h.data.Load()
	quarters := []string{allValue}
	for _, q := range ds.QuarterValues() {
		quarters = append(quarters, strconv.Itoa(q))
	}
	bounds := ds.AmountBounds()
	return c.JSON(http.StatusOK, models.FilterOptions{
		Countries: withAll(ds.Countries()),
		Products:  withAll(ds.Products()),
		Quarters:  quarters,
		Months:    withAll(ds.Months()),
		AmountMin: bounds.Min,
		AmountMax: bounds.Max,
	})
}

func (h *Handler) GetDashboard(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	data, err := engine.BuildDashboard(c.Request().Context(), v,
		engine.WithTopN(h.settings.TopN),
		engine.WithHistogramBins(h.settings.HistogramBins),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// section serves one analysis, or the no-data notice for an empty view.
func (h *Handler) section(c echo.Context, fill func(engine.View, *models.DashboardData)) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	if v.Empty() {
		return c.JSON(http.StatusOK, engine.NoData())
	}
	data := &models.DashboardData{Records: v.Len()}
	fill(v, data)
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) GetMetrics(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		m := engine.Metrics(v)
		d.Metrics = &m
	})
}

func (h *Handler) GetDistribution(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		dist := engine.DistributionOf(v, h.settings.HistogramBins)
		d.Distribution = &dist
	})
}

func (h *Handler) GetTime(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		t := engine.TimeOf(v)
		d.Time = &t
	})
}

func (h *Handler) GetProducts(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		p := engine.PerformanceOf(v, engine.DimProduct, h.settings.TopN)
		d.Products = &p
	})
}

func (h *Handler) GetSalespersons(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		p := engine.PerformanceOf(v, engine.DimSalesperson, h.settings.TopN)
		d.Salespersons = &p
	})
}

func (h *Handler) GetCountries(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		p := engine.PerformanceOf(v, engine.DimCountry, 0)
		d.Countries = &p
	})
}

func (h *Handler) GetCorrelation(c echo.Context) error {
	return h.section(c, func(v engine.View, d *models.DashboardData) {
		m := engine.CorrelationOf(v)
		d.Correlation = &m
	})
}

type chartsResponse struct {
	Records int            `json:"records"`
	NoData  bool           `json:"no_data"`
	Notice  string         `json:"notice,omitempty"`
	Charts  []models.Chart `json:"charts"`
}

// GetCharts returns chart specs for every tab, or one tab with ?tab=.
func (h *Handler) GetCharts(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	data, err := engine.BuildDashboard(c.Request().Context(), v,
		engine.WithTopN(h.settings.TopN),
		engine.WithHistogramBins(h.settings.HistogramBins),
	)
	if err != nil {
		return err
	}

	charts := chart.Build(data)
	if tab := c.QueryParam("tab"); tab != "" {
		charts = chart.ForTab(charts, tab)
	}
	return c.JSON(http.StatusOK, chartsResponse{
		Records: data.Records,
		NoData:  data.NoData,
		Notice:  data.Notice,
		Charts:  charts,
	})
}

// GetRecords returns the filtered rows, paginated.
func (h *Handler) GetRecords(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	total := v.Len()
	limit, offset := getPaginationParams(c, 100)

	if offset >= total {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"data":   []models.RecordRow{},
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
	}

	// offset < total here, so total-offset cannot overflow.
	end := total
	if limit < total-offset {
		end = offset + limit
	}

	page := v.Slice(offset, end)
	rows := make([]models.RecordRow, 0, page.Len())
	for i := 0; i < page.Len(); i++ {
		r := page.Record(i)
		rows = append(rows, models.RecordRow{
			Salesperson:  r.Salesperson,
			Country:      r.Country,
			Product:      r.Product,
			Date:         r.Date.Format(dateFormat),
			SalesAmount:  r.SalesAmount,
			BoxesShipped: r.BoxesShipped,
			Year:         r.Year,
			Quarter:      r.Quarter,
			Month:        r.Month,
			Day:          r.Day,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":   rows,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// ExportArrow returns the filtered rows as an Arrow IPC stream. The stream is
// built in memory so a failure still yields a clean 500.
func (h *Handler) ExportArrow(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := engine.WriteArrow(&buf, v); err != nil {
		h.log.Error("arrow export failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "arrow export failed").SetInternal(err)
	}
	return c.Blob(http.StatusOK, arrowStreamType, buf.Bytes())
}

package models

// NoDataNotice is shown when the active filters select no records.
const NoDataNotice = "No data available for selected filters."

type DashboardData struct {
	Records      int                `json:"records"`
	NoData       bool               `json:"no_data"`
	Notice       string             `json:"notice,omitempty"`
	Metrics      *KeyMetrics        `json:"metrics,omitempty"`
	Distribution *Distribution      `json:"distribution,omitempty"`
	Time         *TimeAnalysis      `json:"time,omitempty"`
	Products     *Performance       `json:"products,omitempty"`
	Salespersons *Performance       `json:"salespersons,omitempty"`
	Countries    *Performance       `json:"countries,omitempty"`
	Correlation  *CorrelationMatrix `json:"correlation,omitempty"`
}

type KeyMetrics struct {
	TotalSales      float64 `json:"total_sales"`
	AverageSales    float64 `json:"average_sales"`
	TotalBoxes      int64   `json:"total_boxes"`
	AverageBoxes    float64 `json:"average_boxes"`
	TotalSalesLabel string  `json:"total_sales_label"`
	AvgSalesLabel   string  `json:"average_sales_label"`
	TotalBoxesLabel string  `json:"total_boxes_label"`
	AvgBoxesLabel   string  `json:"average_boxes_label"`
}

type Distribution struct {
	Summary     []SummaryStat `json:"summary"`
	Categorical []UniqueCount `json:"categorical"`
	Sales       Histogram     `json:"sales_histogram"`
	Boxes       Histogram     `json:"boxes_histogram"`
}

// SummaryStat is a describe() row. Std is nil when it is undefined (one value).
type SummaryStat struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Std    *float64 `json:"std"`
	Min    float64  `json:"min"`
	P25    float64  `json:"p25"`
	P50    float64  `json:"p50"`
	P75    float64  `json:"p75"`
	Max    float64  `json:"max"`
}

type UniqueCount struct {
	Column string `json:"column"`
	Unique int    `json:"unique_values"`
}

type Histogram struct {
	Column string `json:"column"`
	Bins   []Bin  `json:"bins"`
}

type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

type TimeAnalysis struct {
	ByMonth []GroupTotal `json:"by_month"`
	ByDay   []GroupTotal `json:"by_day"`
}

type GroupTotal struct {
	Key          string  `json:"key"`
	SalesAmount  float64 `json:"sales_amount"`
	BoxesShipped int64   `json:"boxes_shipped"`
	Transactions int     `json:"transactions"`
}

type Performance struct {
	Dimension string       `json:"dimension"`
	BySales   []GroupTotal `json:"by_sales"`
	ByBoxes   []GroupTotal `json:"by_boxes"`
	Spread    []BoxStats   `json:"boxes_spread"`
}

// BoxStats summarizes Boxes_Shipped within one group for a box plot.
type BoxStats struct {
	Key    string  `json:"key"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// CorrelationMatrix holds Pearson coefficients; nil entries are undefined.
type CorrelationMatrix struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

type FilterOptions struct {
	Countries []string `json:"countries"`
	Products  []string `json:"products"`
	Quarters  []string `json:"quarters"`
	Months    []string `json:"months"`
	AmountMin float64  `json:"amount_min"`
	AmountMax float64  `json:"amount_max"`
}

type RecordRow struct {
	Salesperson  string  `json:"salesperson"`
	Country      string  `json:"country"`
	Product      string  `json:"product"`
	Date         string  `json:"date"`
	SalesAmount  float64 `json:"sales_amount"`
	BoxesShipped int64   `json:"boxes_shipped"`
	Year         int     `json:"year"`
	Quarter      int     `json:"quarter"`
	Month        string  `json:"month"`
	Day          string  `json:"day"`
}

// Chart is a render-ready chart specification.
type Chart struct {
	ID     string             `json:"id"`
	Tab    string             `json:"tab"`
	Type   string             `json:"type"` // "bar", "line", "pie", "histogram", "box", "heatmap"
	Title  string             `json:"title"`
	XAxis  string             `json:"x_axis,omitempty"`
	YAxis  string             `json:"y_axis,omitempty"`
	Series []ChartSeries      `json:"series,omitempty"`
	Boxes  []BoxStats         `json:"boxes,omitempty"`
	Bins   []Bin              `json:"bins,omitempty"`
	Matrix *CorrelationMatrix `json:"matrix,omitempty"`
	Colors []string           `json:"colors"`
}

type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

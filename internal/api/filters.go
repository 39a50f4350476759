package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"salesdash/internal/engine"
)

// allValue is the wire sentinel for "no restriction". It never reaches the engine.
const allValue = "All"

func isAll(s string) bool { return strings.EqualFold(strings.TrimSpace(s), allValue) }

func withAll(values []string) []string {
	return append([]string{allValue}, values...)
}

// parseFilters reads country, product, min, max, quarter and month.
func parseFilters(q url.Values, ds *engine.Dataset) (engine.Filters, error) {
	f := engine.Filters{
		Countries: parseSelection(q["country"]),
		Products:  parseSelection(q["product"]),
		Month:     parseExact(q.Get("month")),
	}

	quarter, err := parseQuarter(q.Get("quarter"))
	if err != nil {
		return f, err
	}
	f.Quarter = quarter

	amount, err := parseRange(q.Get("min"), q.Get("max"), ds.AmountBounds())
	if err != nil {
		return f, err
	}
	f.Amount = amount
	return f, nil
}

// parseSelection maps a multiselect onto a Selection. No values, or "All"
// among them, is unrestricted.
func parseSelection(values []string) engine.Selection[string] {
	if len(values) == 0 {
		return engine.Unrestricted[string]()
	}
	selected := make([]string, 0, len(values))
	for _, v := range values {
		if isAll(v) {
			return engine.Unrestricted[string]()
		}
		if v = strings.TrimSpace(v); v != "" {
			selected = append(selected, v)
		}
	}
	return engine.RestrictedTo(selected...)
}

func parseExact(value string) engine.Selection[string] {
	if value = strings.TrimSpace(value); value == "" || isAll(value) {
		return engine.Unrestricted[string]()
	}
	return engine.RestrictedTo(value)
}

// parseQuarter accepts "2" or "Q2".
func parseQuarter(value string) (engine.Selection[int], error) {
	value = strings.TrimSpace(value)
	if value == "" || isAll(value) {
		return engine.Unrestricted[int](), nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(value), "Q"))
	if err != nil || n < 1 || n > 4 {
		return engine.Selection[int]{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid quarter %q", value))
	}
	return engine.RestrictedTo(n), nil
}

// parseRange returns nil when neither bound is given; a missing bound
// defaults to the dataset's observed one.
func parseRange(minValue, maxValue string, bounds engine.Bounds) (*engine.Range, error) {
	if minValue == "" && maxValue == "" {
		return nil, nil
	}
	r := engine.Range{Low: bounds.Min, High: bounds.Max}
	var err error
	if minValue != "" {
		if r.Low, err = strconv.ParseFloat(minValue, 64); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid min %q", minValue))
		}
	}
	if maxValue != "" {
		if r.High, err = strconv.ParseFloat(maxValue, 64); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid max %q", maxValue))
		}
	}
	if math.IsNaN(r.Low) || math.IsNaN(r.High) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "amount bounds must be numbers")
	}
	if r.Low > r.High {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("min %v exceeds max %v", r.Low, r.High))
	}
	return &r, nil
}

package engine

import (
	"bufio"
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	arrowcsv "github.com/apache/arrow-go/v18/arrow/csv"
	"go.uber.org/zap"
)

// Internal column names.
const (
	ColSalesperson  = "Salesperson"
	ColCountry      = "Country"
	ColProduct      = "Product"
	ColDate         = "Date"
	ColSalesAmount  = "Sales_Amount"
	ColBoxesShipped = "Boxes_Shipped"
	ColYear         = "Year"
	ColQuarter      = "Quarter"
	ColMonth        = "Month"
	ColDay          = "Day"
)

const chunkRows = 4096

type column struct {
	name     string
	raw      string
	typ      arrow.DataType
	required bool
}

var columns = []column{
	{ColSalesperson, "sales_person", arrow.BinaryTypes.String, true},
	{ColCountry, "country", arrow.BinaryTypes.String, true},
	{ColProduct, "product", arrow.BinaryTypes.String, true},
	{ColDate, "date", arrow.BinaryTypes.String, true},
	{ColSalesAmount, "amount", arrow.PrimitiveTypes.Float64, true},
	{ColBoxesShipped, "boxes_shipped", arrow.PrimitiveTypes.Int64, true},
	{ColYear, "year", arrow.PrimitiveTypes.Int64, false},
	{ColQuarter, "quarter", arrow.PrimitiveTypes.Int64, false},
	{ColMonth, "month_name", arrow.BinaryTypes.String, false},
	{ColDay, "day_name", arrow.BinaryTypes.String, false},
}

// RenameMap is the fixed header renaming applied at load (raw -> internal).
var RenameMap = func() map[string]string {
	m := make(map[string]string, len(columns))
	for _, c := range columns {
		m[c.raw] = c.name
	}
	return m
}()

var headerReplacer = strings.NewReplacer(" ", "_", "-", "_")

// canonicalColumn resolves a header cell to a known column.
// "Sales Person", "sales_person" and "Salesperson" all resolve to Salesperson.
func canonicalColumn(header string) (column, bool) {
	key := headerReplacer.Replace(strings.ToLower(strings.TrimSpace(header)))
	for _, c := range columns {
		if key == c.raw || key == strings.ToLower(c.name) {
			return c, true
		}
	}
	return column{}, false
}

var dateLayouts = []string{"2006-01-02", "02-Jan-06", "02-Jan-2006", "01/02/2006", "2006/01/02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// LoadCSV reads the dataset file at path.
func LoadCSV(path string, logger *zap.Logger) (*Dataset, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", path, err)
	}

	logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", ds.Len()),
		zap.Int("countries", len(ds.CountryDict)),
		zap.Int("products", len(ds.ProductDict)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

// ReadCSV parses a CSV stream with a header row into a Dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)

	headerLine, err := br.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || headerLine == "") {
		return nil, fmt.Errorf("read header: %w", err)
	}
	headerLine = strings.TrimPrefix(headerLine, "\ufeff")

	header, err := stdcsv.NewReader(strings.NewReader(headerLine)).Read()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	// Build the schema in file order; unknown columns are carried as strings and ignored.
	fields := make([]arrow.Field, len(header))
	positions := make(map[string]int, len(columns))
	for i, h := range header {
		c, ok := canonicalColumn(h)
		if !ok {
			fields[i] = arrow.Field{Name: h, Type: arrow.BinaryTypes.String, Nullable: true}
			continue
		}
		if _, dup := positions[c.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		positions[c.name] = i
		fields[i] = arrow.Field{Name: c.name, Type: c.typ, Nullable: true}
	}
	for _, c := range columns {
		if _, ok := positions[c.name]; c.required && !ok {
			return nil, fmt.Errorf("missing required column %q", c.raw)
		}
	}

	rdr := arrowcsv.NewReader(
		io.MultiReader(strings.NewReader(headerLine), br),
		arrow.NewSchema(fields, nil),
		arrowcsv.WithHeader(true),
		arrowcsv.WithChunk(chunkRows),
	)
	defer rdr.Release()

	b := newBuilder(0)
	row := 0
	for rdr.Next() {
		rec := rdr.Record()
		cols := bindColumns(rec, positions)
		n := int(rec.NumRows())
		for i := 0; i < n; i++ {
			row++
			r, err := cols.record(i)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			b.append(r)
		}
	}
	if err := rdr.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return b.build(), nil
}

// recordColumns holds typed views of one arrow record batch.
// Optional columns are nil when absent from the file.
type recordColumns struct {
	salesperson, country, product, date *array.String
	month, day                          *array.String
	amount                              *array.Float64
	boxes, year, quarter                *array.Int64
}

func bindColumns(rec arrow.Record, positions map[string]int) recordColumns {
	str := func(name string) *array.String {
		if i, ok := positions[name]; ok {
			return rec.Column(i).(*array.String)
		}
		return nil
	}
	i64 := func(name string) *array.Int64 {
		if i, ok := positions[name]; ok {
			return rec.Column(i).(*array.Int64)
		}
		return nil
	}
	return recordColumns{
		salesperson: str(ColSalesperson),
		country:     str(ColCountry),
		product:     str(ColProduct),
		date:        str(ColDate),
		month:       str(ColMonth),
		day:         str(ColDay),
		amount:      rec.Column(positions[ColSalesAmount]).(*array.Float64),
		boxes:       i64(ColBoxesShipped),
		year:        i64(ColYear),
		quarter:     i64(ColQuarter),
	}
}

func (c recordColumns) record(i int) (Record, error) {
	if c.amount.IsNull(i) {
		return Record{}, errors.New("missing Sales_Amount")
	}
	if c.boxes.IsNull(i) {
		return Record{}, errors.New("missing Boxes_Shipped")
	}

	date, err := parseDate(c.date.Value(i))
	if err != nil {
		return Record{}, err
	}

	r := Record{
		Salesperson:  c.salesperson.Value(i),
		Country:      c.country.Value(i),
		Product:      c.product.Value(i),
		Date:         date,
		SalesAmount:  c.amount.Value(i),
		BoxesShipped: c.boxes.Value(i),
		Month:        optString(c.month, i),
		Day:          optString(c.day, i),
		Year:         int(optInt(c.year, i)),
		Quarter:      int(optInt(c.quarter, i)),
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

func optString(a *array.String, i int) string {
	if a == nil || a.IsNull(i) {
		return ""
	}
	return a.Value(i)
}

func optInt(a *array.Int64, i int) int64 {
	if a == nil || a.IsNull(i) {
		return 0
	}
	return a.Value(i)
}

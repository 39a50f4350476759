package engine

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
)

// Dataset holds the sales records in Struct-of-Arrays format.
// It is built once at startup and never mutated afterwards.
type Dataset struct {
	// Data Columns (Flat Arrays)
	Amounts  []float64
	Boxes    []int64
	Dates    []arrow.Date32
	Years    []int32
	Quarters []int32

	// Dictionary Encoded IDs (0..N)
	SalespersonIDs []int32
	CountryIDs     []int32
	ProductIDs     []int32
	MonthIDs       []int32
	DayIDs         []int32

	// Dictionaries (ID -> String)
	SalespersonDict []string
	CountryDict     []string
	ProductDict     []string
	MonthDict       []string
	DayDict         []string
}

// Record is one row of the dataset in row form.
type Record struct {
	Salesperson  string
	Country      string
	Product      string
	Date         time.Time
	SalesAmount  float64
	BoxesShipped int64
	Year         int
	Quarter      int
	Month        string
	Day          string
}

// Validate checks the measures of r. Both must be non-negative and finite.
func (r Record) Validate() error {
	if math.IsNaN(r.SalesAmount) || math.IsInf(r.SalesAmount, 0) {
		return fmt.Errorf("invalid Sales_Amount %v", r.SalesAmount)
	}
	if r.SalesAmount < 0 || r.BoxesShipped < 0 {
		return fmt.Errorf("negative measure (amount=%v boxes=%d)", r.SalesAmount, r.BoxesShipped)
	}
	return nil
}

// Bounds is the observed Sales_Amount range.
type Bounds struct {
	Min float64
	Max float64
}

// Len returns the number of rows.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.Amounts)
}

// Record materializes row i.
func (ds *Dataset) Record(i int) Record {
	return Record{
		Salesperson:  ds.SalespersonDict[ds.SalespersonIDs[i]],
		Country:      ds.CountryDict[ds.CountryIDs[i]],
		Product:      ds.ProductDict[ds.ProductIDs[i]],
		Date:         ds.Dates[i].ToTime(),
		SalesAmount:  ds.Amounts[i],
		BoxesShipped: ds.Boxes[i],
		Year:         int(ds.Years[i]),
		Quarter:      int(ds.Quarters[i]),
		Month:        ds.MonthDict[ds.MonthIDs[i]],
		Day:          ds.DayDict[ds.DayIDs[i]],
	}
}

// AmountBounds returns the min and max Sales_Amount. Zero for an empty dataset.
func (ds *Dataset) AmountBounds() Bounds {
	if ds.Len() == 0 {
		return Bounds{}
	}
	b := Bounds{Min: ds.Amounts[0], Max: ds.Amounts[0]}
	for _, v := range ds.Amounts[1:] {
		if v < b.Min {
			b.Min = v
		}
		if v > b.Max {
			b.Max = v
		}
	}
	return b
}

// Countries returns the distinct countries, sorted.
func (ds *Dataset) Countries() []string { return sortedCopy(ds.CountryDict) }

// Products returns the distinct products, sorted.
func (ds *Dataset) Products() []string { return sortedCopy(ds.ProductDict) }

// Months returns the distinct month names, sorted alphabetically.
func (ds *Dataset) Months() []string { return sortedCopy(ds.MonthDict) }

// QuarterValues returns the distinct quarters, ascending.
func (ds *Dataset) QuarterValues() []int {
	seen := make(map[int32]struct{}, 4)
	out := make([]int, 0, 4)
	for _, q := range ds.Quarters {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, int(q))
	}
	sort.Ints(out)
	return out
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

// dictionary assigns dense IDs to strings in first-seen order.
type dictionary struct {
	index  map[string]int32
	values []string
}

func newDictionary() *dictionary {
	return &dictionary{index: make(map[string]int32)}
}

func (d *dictionary) id(s string) int32 {
	if id, ok := d.index[s]; ok {
		return id
	}
	id := int32(len(d.values))
	d.values = append(d.values, s)
	d.index[s] = id
	return id
}

// builder appends rows into a Dataset.
type builder struct {
	ds                          *Dataset
	people, countries, products *dictionary
	months, days                *dictionary
}

func newBuilder(capacity int) *builder {
	return &builder{
		ds: &Dataset{
			Amounts:        make([]float64, 0, capacity),
			Boxes:          make([]int64, 0, capacity),
			Dates:          make([]arrow.Date32, 0, capacity),
			Years:          make([]int32, 0, capacity),
			Quarters:       make([]int32, 0, capacity),
			SalespersonIDs: make([]int32, 0, capacity),
			CountryIDs:     make([]int32, 0, capacity),
			ProductIDs:     make([]int32, 0, capacity),
			MonthIDs:       make([]int32, 0, capacity),
			DayIDs:         make([]int32, 0, capacity),
		},
		people:    newDictionary(),
		countries: newDictionary(),
		products:  newDictionary(),
		months:    newDictionary(),
		days:      newDictionary(),
	}
}

// append adds r, deriving any missing calendar attributes from r.Date.
func (b *builder) append(r Record) {
	r = withCalendar(r)
	ds := b.ds
	ds.Amounts = append(ds.Amounts, r.SalesAmount)
	ds.Boxes = append(ds.Boxes, r.BoxesShipped)
	ds.Dates = append(ds.Dates, arrow.Date32FromTime(r.Date))
	ds.Years = append(ds.Years, int32(r.Year))
	ds.Quarters = append(ds.Quarters, int32(r.Quarter))
	ds.SalespersonIDs = append(ds.SalespersonIDs, b.people.id(r.Salesperson))
	ds.CountryIDs = append(ds.CountryIDs, b.countries.id(r.Country))
	ds.ProductIDs = append(ds.ProductIDs, b.products.id(r.Product))
	ds.MonthIDs = append(ds.MonthIDs, b.months.id(r.Month))
	ds.DayIDs = append(ds.DayIDs, b.days.id(r.Day))
}

func (b *builder) build() *Dataset {
	ds := b.ds
	ds.SalespersonDict = b.people.values
	ds.CountryDict = b.countries.values
	ds.ProductDict = b.products.values
	ds.MonthDict = b.months.values
	ds.DayDict = b.days.values
	return ds
}

// NewDataset builds a Dataset from row-form records.
func NewDataset(records []Record) *Dataset {
	b := newBuilder(len(records))
	for _, r := range records {
		b.append(r)
	}
	return b.build()
}

func withCalendar(r Record) Record {
	if r.Date.IsZero() {
		return r
	}
	if r.Year == 0 {
		r.Year = r.Date.Year()
	}
	if r.Quarter == 0 {
		r.Quarter = (int(r.Date.Month())-1)/3 + 1
	}
	if r.Month == "" {
		r.Month = r.Date.Month().String()
	}
	if r.Day == "" {
		r.Day = r.Date.Weekday().String()
	}
	return r
}

package engine

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ExportSchema is the Arrow schema of exported views.
var ExportSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColSalesperson, Type: arrow.BinaryTypes.String},
	{Name: ColCountry, Type: arrow.BinaryTypes.String},
	{Name: ColProduct, Type: arrow.BinaryTypes.String},
	{Name: ColDate, Type: arrow.FixedWidthTypes.Date32},
	{Name: ColSalesAmount, Type: arrow.PrimitiveTypes.Float64},
	{Name: ColBoxesShipped, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColYear, Type: arrow.PrimitiveTypes.Int32},
	{Name: ColQuarter, Type: arrow.PrimitiveTypes.Int32},
	{Name: ColMonth, Type: arrow.BinaryTypes.String},
	{Name: ColDay, Type: arrow.BinaryTypes.String},
}, nil)

// WriteArrow streams the rows of v as one Arrow IPC record batch.
func WriteArrow(w io.Writer, v View) error {
	mem := memory.NewGoAllocator()

	b := array.NewRecordBuilder(mem, ExportSchema)
	defer b.Release()

	var (
		people    = b.Field(0).(*array.StringBuilder)
		countries = b.Field(1).(*array.StringBuilder)
		products  = b.Field(2).(*array.StringBuilder)
		dates     = b.Field(3).(*array.Date32Builder)
		amounts   = b.Field(4).(*array.Float64Builder)
		boxes     = b.Field(5).(*array.Int64Builder)
		years     = b.Field(6).(*array.Int32Builder)
		quarters  = b.Field(7).(*array.Int32Builder)
		months    = b.Field(8).(*array.StringBuilder)
		days      = b.Field(9).(*array.StringBuilder)
	)

	ds := v.ds
	for _, row := range v.rows {
		people.Append(ds.SalespersonDict[ds.SalespersonIDs[row]])
		countries.Append(ds.CountryDict[ds.CountryIDs[row]])
		products.Append(ds.ProductDict[ds.ProductIDs[row]])
		dates.Append(ds.Dates[row])
		amounts.Append(ds.Amounts[row])
		boxes.Append(ds.Boxes[row])
		years.Append(ds.Years[row])
		quarters.Append(ds.Quarters[row])
		months.Append(ds.MonthDict[ds.MonthIDs[row]])
		days.Append(ds.DayDict[ds.DayIDs[row]])
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(ExportSchema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		iw.Close()
		return fmt.Errorf("write arrow batch: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}

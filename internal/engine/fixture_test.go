package engine

import "time"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sampleRecords:
// Row 0: Alice, Germany, ProdA, Jan (Q1, Monday),   Rev 100, Boxes 10
// Row 1: Bob,   Germany, ProdB, Feb (Q1, Monday),   Rev 200, Boxes 5
// Row 2: Alice, France,  ProdA, May (Q2, Tuesday),  Rev 50,  Boxes 20
// Row 3: Cara,  UK,      ProdC, Aug (Q3, Friday),   Rev 300, Boxes 1
// Row 4: Bob,   France,  ProdB, Jan (Q1, Friday),   Rev 200, Boxes 30
func sampleRecords() []Record {
	return []Record{
		{Salesperson: "Alice", Country: "Germany", Product: "ProdA", Date: day(2022, time.January, 10), SalesAmount: 100, BoxesShipped: 10},
		{Salesperson: "Bob", Country: "Germany", Product: "ProdB", Date: day(2022, time.February, 14), SalesAmount: 200, BoxesShipped: 5},
		{Salesperson: "Alice", Country: "France", Product: "ProdA", Date: day(2022, time.May, 3), SalesAmount: 50, BoxesShipped: 20},
		{Salesperson: "Cara", Country: "UK", Product: "ProdC", Date: day(2022, time.August, 19), SalesAmount: 300, BoxesShipped: 1},
		{Salesperson: "Bob", Country: "France", Product: "ProdB", Date: day(2022, time.January, 21), SalesAmount: 200, BoxesShipped: 30},
	}
}

func sampleDataset() *Dataset {
	return NewDataset(sampleRecords())
}

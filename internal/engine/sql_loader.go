package engine

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

const sqlSelectColumns = `sales_person, country, product, date, amount, boxes_shipped`

// LoadSQL reads the dataset from a table with the raw column names of the CSV file.
// Calendar attributes are derived from the date column.
func LoadSQL(ctx context.Context, db *sql.DB, table string, logger *zap.Logger) (*Dataset, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	start := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM %s`, sqlSelectColumns, table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to exec query: %w, query: %s", err, query)
	}
	defer rows.Close()

	b := newBuilder(0)
	row := 0
	for rows.Next() {
		row++
		var (
			r    Record
			date interface{}
		)
		if err := rows.Scan(&r.Salesperson, &r.Country, &r.Product, &date, &r.SalesAmount, &r.BoxesShipped); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if r.Date, err = scanDate(date); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		b.append(r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	ds := b.build()
	logger.Info("dataset loaded",
		zap.String("table", table),
		zap.Int("rows", ds.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

// scanDate accepts what drivers return for DATE and TEXT columns.
func scanDate(v interface{}) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		return parseDate(d)
	case []byte:
		return parseDate(string(d))
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %T", v)
	}
}

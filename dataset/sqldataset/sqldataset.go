/*
Package sqldataset provides an implementation of dataset.Dataset that
reads records from a table on a SQL database, through an Adapter that
absorbs the differences between database engines.
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pbanos/canopy/dataset"
	"github.com/pbanos/canopy/predicate"
)

/*
Adapter is an interface for the engine-specific part of reading records
from a SQL database.

Its ColumnName method validates a field name and returns the column name
to select it by, or an error if the field cannot be mapped to a column.
Its QueryRecords method returns the rows of the given table restricted
to the given columns. Its CountRecords method returns the number of rows
on the given table. Its Close method releases the underlying connection.
*/
type Adapter interface {
	ColumnName(field string) (string, error)
	QueryRecords(ctx context.Context, table string, columns []string) (*sql.Rows, error)
	CountRecords(ctx context.Context, table string) (int, error)
	Close() error
}

type sqlDataset struct {
	db      Adapter
	table   string
	fields  []string
	columns []string
}

/*
Open takes an Adapter to a database engine, a table name and the fields
records should expose and returns a dataset.Dataset backed by the table
or an error if the fields cannot be mapped to columns.
*/
func Open(ctx context.Context, db Adapter, table string, fields []string) (dataset.Dataset, error) {
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		column, err := db.ColumnName(field)
		if err != nil {
			return nil, fmt.Errorf("opening sql dataset on %s: %v", table, err)
		}
		columns = append(columns, column)
	}
	return &sqlDataset{db: db, table: table, fields: fields, columns: columns}, nil
}

func (sd *sqlDataset) Records(ctx context.Context) ([]predicate.Record, error) {
	rows, err := sd.db.QueryRecords(ctx, sd.table, sd.columns)
	if err != nil {
		return nil, fmt.Errorf("querying records on %s: %v", sd.table, err)
	}
	defer rows.Close()
	var records []predicate.Record
	for rows.Next() {
		targets := make([]interface{}, len(sd.fields))
		for i := range targets {
			targets[i] = new(interface{})
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scanning record on %s: %v", sd.table, err)
		}
		values := make(map[string]interface{}, len(sd.fields))
		for i, field := range sd.fields {
			value := normalizeValue(*(targets[i].(*interface{})))
			if value != nil {
				values[field] = value
			}
		}
		records = append(records, dataset.NewRecord(values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records on %s: %v", sd.table, err)
	}
	return records, nil
}

func (sd *sqlDataset) Count(ctx context.Context) (int, error) {
	count, err := sd.db.CountRecords(ctx, sd.table)
	if err != nil {
		return 0, fmt.Errorf("counting records on %s: %v", sd.table, err)
	}
	return count, nil
}

func (sd *sqlDataset) Close(ctx context.Context) error {
	return sd.db.Close()
}

// normalizeValue maps driver-specific scan results onto the value types
// predicates compare against: float64 for numbers, string for text.
func normalizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return string(v)
	case int64:
		return float64(v)
	case float64, string, bool:
		return v
	}
	return fmt.Sprintf("%v", value)
}

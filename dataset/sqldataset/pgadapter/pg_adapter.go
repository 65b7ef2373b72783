/*
Package pgadapter provides an implementation of the Adapter interface in
the sqldataset package that works over a PostgreSQL database.
*/
package pgadapter

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/pbanos/canopy/dataset/sqldataset"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns an Adapter
that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(field string) (string, error) {
	if strings.ContainsAny(field, `"`) {
		return "", fmt.Errorf(`field name '%s' contains invalid character '"'`, field)
	}
	return fmt.Sprintf(`"%s"`, field), nil
}

func (a *adapter) QueryRecords(ctx context.Context, table string, columns []string) (*sql.Rows, error) {
	query := fmt.Sprintf(`SELECT %s FROM "%s"`, strings.Join(columns, ", "), table)
	return a.db.QueryContext(ctx, query)
}

func (a *adapter) CountRecords(ctx context.Context, table string) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, table)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}

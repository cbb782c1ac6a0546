// Package sql implements a SQL database.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"
)

type (
	// Database is a SQL database with additional configuration.
	Database struct {
		db *sql.DB
		// QueryPeriod is the amount of time that any single query or transaction can take to execute.
		QueryPeriod time.Duration
	}

	// DatabaseConfig contains fields to open a Database.
	DatabaseConfig struct {
		// DriverName is the name of the registered database/sql driver.
		DriverName string
		// DatabaseURL is the data source name passed to the driver.
		DatabaseURL string
		// QueryPeriod is the amount of time that any single query or transaction can take to execute.
		QueryPeriod time.Duration
	}

	// Query is a message that is sent to the database.
	Query interface {
		// Cmd is the injection-safe message to send to the database.
		Cmd() string
		// Args are the user-provided properties of the messages which should be escaped.
		Args() []interface{}
	}

	// Scanner reads data from the database.
	Scanner interface {
		// Scan reads from the database into the destination array.
		Scan(dest ...interface{}) error
	}

	// singleRowQuery is a Query that must change exactly one row.
	singleRowQuery interface {
		Query
		// singleRow returns the name of the query and true if exactly one row must be affected.
		singleRow() (string, bool)
	}
)

// ErrNoRows is returned by Query when there are no rows to scan.
var ErrNoRows = sql.ErrNoRows

// NewDatabase opens a database from the config.
func (cfg DatabaseConfig) NewDatabase() (*Database, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating sql database: validation: %w", err)
	}
	sqlDB, err := sql.Open(cfg.DriverName, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database %w", err)
	}
	d := Database{
		db:          sqlDB,
		QueryPeriod: cfg.QueryPeriod,
	}
	return &d, nil
}

// validate ensures the configuration has no errors.
func (cfg DatabaseConfig) validate() error {
	switch {
	case len(cfg.DriverName) == 0:
		return fmt.Errorf("driver name required")
	case len(cfg.DatabaseURL) == 0:
		return fmt.Errorf("database url required")
	case cfg.QueryPeriod <= 0:
		return fmt.Errorf("positive query period required")
	}
	return nil
}

// Setup initializes the database by reading the files and executing their contents as raw queries.
func (d Database) Setup(ctx context.Context, files []io.Reader) error {
	queries := make([]Query, len(files))
	for i, f := range files {
		b, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("reading sql setup query %v: %w", i, err)
		}
		queries[i] = RawQuery(b)
	}
	if err := d.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("running setup queries %w", err)
	}
	return nil
}

// Query queries a single row, scanning into the destination array.
func (d Database) Query(ctx context.Context, q Query, dest ...interface{}) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	row := d.db.QueryRowContext(ctx, q.Cmd(), q.Args()...)
	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("querying into destination arguments: %w", err)
	}
	return nil
}

// QueryRows queries many rows, calling the scan function for each row.
func (d Database) QueryRows(ctx context.Context, q Query, scan func(s Scanner) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	rows, err := d.db.QueryContext(ctx, q.Cmd(), q.Args()...)
	if err != nil {
		return fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scanning row %v: %w", i, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading rows: %w", err)
	}
	return nil
}

// Exec evaluates multiple queries in a transaction, ensuring each single row query only updates one row.
func (d Database) Exec(ctx context.Context, queries ...Query) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for i, q := range queries {
		result, err := tx.ExecContext(ctx, q.Cmd(), q.Args()...)
		if s, ok := q.(singleRowQuery); err == nil && ok {
			if name, single := s.singleRow(); single {
				var n int64
				n, err = result.RowsAffected()
				if err == nil && n != 1 {
					err = fmt.Errorf("wanted to update 1 row, but updated %d when calling %s", n, name)
				}
			}
		}
		if err != nil {
			err = fmt.Errorf("executing query %v: %w", i, err)
			if err2 := tx.Rollback(); err2 != nil {
				return fmt.Errorf("rolling back transaction due to %v: %w", err, err2)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the database, releasing any open resources.
func (d Database) Close() error {
	return d.db.Close()
}

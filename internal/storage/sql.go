package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cypar/internal/domain"
	"cypar/internal/weights"

	"github.com/go-sql-driver/mysql"
)

const weightsTable = "cypar_weights"

const createWeightsTable = `CREATE TABLE IF NOT EXISTS ` + weightsTable + ` (
	spec_key VARCHAR(512) NOT NULL PRIMARY KEY,
	position INT NOT NULL,
	time_ms BIGINT NOT NULL,
	weight DOUBLE NOT NULL
)`

// SQLStore keeps the weight table in MySQL so several CI agents share it.
type SQLStore struct {
	db       *sql.DB
	location string
}

// NewSQLStore opens a MySQL connection pool for dsn. The connection itself
// is only established on first use.
func NewSQLStore(dsn string) (*SQLStore, error) {
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, &domain.ConfigError{Field: "weights_dsn", Err: err}
	}
	if parsed.DBName == "" {
		return nil, &domain.ConfigError{Field: "weights_dsn", Err: fmt.Errorf("database name is required")}
	}

	db, err := sql.Open("mysql", parsed.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open weights database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(time.Minute)

	return &SQLStore{db: db, location: sqlLocation(parsed)}, nil
}

// sqlLocation renders the DSN without credentials for messages.
func sqlLocation(cfg *mysql.Config) string {
	return fmt.Sprintf("mysql://%s/%s.%s", cfg.Addr, cfg.DBName, weightsTable)
}

// Location returns a credential-free description of the table
func (s *SQLStore) Location() string {
	return s.location
}

// Close releases the connection pool
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Load reads all rows ordered by their stored position.
func (s *SQLStore) Load(ctx context.Context) (*weights.Table, error) {
	if _, err := s.db.ExecContext(ctx, createWeightsTable); err != nil {
		return weights.NewTable(), s.warn(err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT spec_key, time_ms, weight FROM `+weightsTable+` ORDER BY position`)
	if err != nil {
		return weights.NewTable(), s.warn(err)
	}
	defer rows.Close()

	table := weights.NewTable()
	for rows.Next() {
		var (
			key    string
			timeMs int64
			weight float64
		)
		if err := rows.Scan(&key, &timeMs, &weight); err != nil {
			return weights.NewTable(), s.warn(err)
		}
		table.Set(key, weights.Record{Time: time.Duration(timeMs) * time.Millisecond, Weight: weight})
	}
	if err := rows.Err(); err != nil {
		return weights.NewTable(), s.warn(err)
	}
	return table, nil
}

// Save replaces every row in a single transaction.
func (s *SQLStore) Save(ctx context.Context, table *weights.Table) error {
	if err := s.save(ctx, table); err != nil {
		return &domain.WeightSaveError{Location: s.location, Err: err}
	}
	return nil
}

func (s *SQLStore) save(ctx context.Context, table *weights.Table) error {
	if _, err := s.db.ExecContext(ctx, createWeightsTable); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+weightsTable); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+weightsTable+` (spec_key, position, time_ms, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range table.Entries() {
		if _, err := stmt.ExecContext(ctx, e.Key, i, e.Record.Time.Milliseconds(), e.Record.Weight); err != nil {
			return fmt.Errorf("insert %q: %w", e.Key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) warn(err error) error {
	return &domain.WeightLoadWarning{Location: s.location, Err: err}
}

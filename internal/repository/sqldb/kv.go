// Package sqldb stores widget state through database/sql, on SQLite files
// or MySQL servers.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/Rrens/smartchat/internal/domain"
)

type dialect struct {
	driver string
	schema string
	upsert string
}

var dialects = map[string]dialect{
	"sqlite": {
		driver: "sqlite",
		schema: `CREATE TABLE IF NOT EXISTS widget_state (
			namespace  TEXT NOT NULL,
			state_key  TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (namespace, state_key)
		)`,
		upsert: `INSERT INTO widget_state (namespace, state_key, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (namespace, state_key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	},
	"mysql": {
		driver: "mysql",
		schema: "CREATE TABLE IF NOT EXISTS widget_state (" +
			"namespace VARCHAR(128) NOT NULL, " +
			"state_key VARCHAR(128) NOT NULL, " +
			"value MEDIUMTEXT NOT NULL, " +
			"updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP, " +
			"PRIMARY KEY (namespace, state_key))",
		upsert: "INSERT INTO widget_state (namespace, state_key, value) VALUES (?, ?, ?) " +
			"ON DUPLICATE KEY UPDATE value = VALUES(value)",
	},
}

// KVStore implements domain.KVStore on a SQL database
type KVStore struct {
	db        *sql.DB
	dialect   dialect
	namespace string
}

// Open connects with the named driver ("sqlite" or "mysql") and creates the
// widget_state table if it does not exist. For sqlite dsn is a file path.
func Open(ctx context.Context, driver, dsn, namespace string) (*KVStore, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported sql driver: %s", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s store requires a dsn", driver)
	}

	if driver == "sqlite" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dsn)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite only supports one writer
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create widget_state table: %w", err)
	}

	return &KVStore{db: db, dialect: d, namespace: namespace}, nil
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	query := "SELECT value FROM widget_state WHERE namespace = ? AND state_key = ?"

	var value string
	err := s.db.QueryRowContext(ctx, query, s.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, s.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	query := "DELETE FROM widget_state WHERE namespace = ? AND state_key = ?"
	if _, err := s.db.ExecContext(ctx, query, s.namespace, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}

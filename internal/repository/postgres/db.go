package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

const (
	maxConcurrentTx = 4
	maxOpenConns    = 10
	maxIdleConns    = 2
	connMaxLifetime = 5 * time.Minute
)

var ErrIncompleteDatabaseConfig = errors.New("database host and name are required")

// DB is the catalog database handle. Transactions go through WithTx.
type DB struct {
	*sqlx.DB
	txSlots *semaphore.Weighted
}

// NewDB opens the catalog database with lib/pq and checks it answers.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect catalog database %s/%s: %w", cfg.Host, cfg.DBName, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return Wrap(db), nil
}

// Wrap adapts an existing connection, e.g. one opened with the pgx driver.
func Wrap(db *sqlx.DB) *DB {
	return &DB{DB: db, txSlots: semaphore.NewWeighted(maxConcurrentTx)}
}

// dataSourceName renders cfg as a lib/pq keyword string. Port and sslmode
// fall back to 5432 and disable.
func dataSourceName(cfg *config.DatabaseConfig) (string, error) {
	if cfg == nil || cfg.Host == "" || cfg.DBName == "" {
		return "", ErrIncompleteDatabaseConfig
	}

	port, sslMode := cfg.Port, cfg.SSLMode
	if port == "" {
		port = "5432"
	}
	if sslMode == "" {
		sslMode = "disable"
	}

	pairs := []struct{ key, value string }{
		{"host", cfg.Host},
		{"port", port},
		{"user", cfg.User},
		{"password", cfg.Password},
		{"dbname", cfg.DBName},
		{"sslmode", sslMode},
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteDSNValue(p.value))
	}
	return strings.Join(parts, " "), nil
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// WithTx runs fn in a transaction, rolling back when fn fails.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.txSlots.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("wait for transaction slot: %w", err)
	}
	defer db.txSlots.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("catalog: rollback failed")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog transaction: %w", err)
	}
	return nil
}

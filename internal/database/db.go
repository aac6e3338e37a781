package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-console/internal/config"
)

// Open connects to MySQL and verifies the connection.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	auth := cfg.User
	if cfg.Pass != "" {
		auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, cfg.Host, cfg.Port, cfg.Name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Sessions are tiny single-row lookups; a small pool is enough.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const sessionsDDL = `CREATE TABLE IF NOT EXISTS console_sessions (
	session_hash CHAR(64)     NOT NULL PRIMARY KEY,
	token        TEXT         NOT NULL,
	expires_at   DATETIME     NULL,
	revoked_at   DATETIME     NULL,
	created_at   DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_console_sessions_expires (expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// EnsureSchema creates the tables the console needs if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sessionsDDL); err != nil {
		return fmt.Errorf("create console_sessions: %w", err)
	}
	return nil
}

// Package repository holds the MySQL-backed persistence of the console.
// Only sessions are stored locally; movies live behind the movie API.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/movie-console/internal/session"
)

// SessionRepo persists session tokens in the console_sessions table.  It
// implements session.Store; keys arrive already hashed.
type SessionRepo struct {
	DB  *sql.DB
	now func() time.Time
}

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db, now: time.Now} }

// Get returns the token of a non-revoked, non-expired session.
func (r *SessionRepo) Get(ctx context.Context, key string) (string, error) {
	var (
		token     string
		expiresAt sql.NullTime
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT token, expires_at, revoked_at FROM console_sessions WHERE session_hash=? LIMIT 1",
		key).Scan(&token, &expiresAt, &revokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if revokedAt.Valid {
		return "", session.ErrNotFound
	}
	if expiresAt.Valid && r.now().UTC().After(expiresAt.Time) {
		return "", session.ErrNotFound
	}
	return token, nil
}

// Put inserts a session row, or replaces the token of an existing one.  A
// zero ttl stores the session without expiry.
func (r *SessionRepo) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	var exp sql.NullTime
	if ttl > 0 {
		exp = sql.NullTime{Time: r.now().UTC().Add(ttl), Valid: true}
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO console_sessions (session_hash, token, expires_at) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE token=VALUES(token), expires_at=VALUES(expires_at), revoked_at=NULL`,
		key, token, exp)
	return err
}

// Delete marks a session as revoked.
func (r *SessionRepo) Delete(ctx context.Context, key string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE console_sessions SET revoked_at=NOW() WHERE session_hash=? AND revoked_at IS NULL",
		key)
	return err
}

// PurgeExpired removes revoked rows and rows past their expiry.  It returns
// the number of rows deleted.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM console_sessions WHERE revoked_at IS NOT NULL OR (expires_at IS NOT NULL AND expires_at < ?)",
		r.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

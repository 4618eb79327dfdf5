package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tapilabs/leadsim/internal/domain"
	_ "modernc.org/sqlite"
)

// credentialsProfile keys the single credential row. The hosted form kept
// one credential set per browser; the gateway keeps one per database.
const credentialsProfile = "default"

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS credentials (
		profile TEXT PRIMARY KEY,
		access_token TEXT NOT NULL,
		company_id TEXT NOT NULL,
		campaign_code TEXT NOT NULL,
		issued_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetCredentials retrieves the stored credentials, or nil when absent.
func (s *SQLiteStore) GetCredentials(ctx context.Context) (*domain.Credentials, error) {
	query := `
		SELECT access_token, company_id, campaign_code, issued_at
		FROM credentials WHERE profile = ?`

	row := s.db.QueryRowContext(ctx, query, credentialsProfile)

	var creds domain.Credentials
	var issuedAt int64

	err := row.Scan(&creds.AccessToken, &creds.CompanyID, &creds.CampaignCode, &issuedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan credentials row: %w", err)
	}

	creds.IssuedAt = time.Unix(issuedAt, 0)
	return &creds, nil
}

// isBusyError checks for SQLite concurrency errors that warrant a retry.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// withBusyRetry runs fn with exponential backoff on SQLITE_BUSY. The write
// path races the startup credential read only briefly, so three attempts
// are plenty.
func withBusyRetry(ctx context.Context, fn func() error) error {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var err error
	for i := 0; i < maxRetries; i++ {
		err = fn()
		if err == nil || !isBusyError(err) {
			return err
		}
		if i < maxRetries-1 {
			delay := baseDelay * time.Duration(1<<i)
			slog.Debug("SQLite busy, retrying", "attempt", i+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxRetries, err)
}

// SaveCredentials stores the credentials, replacing any previous set.
func (s *SQLiteStore) SaveCredentials(ctx context.Context, creds *domain.Credentials) error {
	query := `
	INSERT INTO credentials (profile, access_token, company_id, campaign_code, issued_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(profile) DO UPDATE SET
		access_token = excluded.access_token,
		company_id = excluded.company_id,
		campaign_code = excluded.campaign_code,
		issued_at = excluded.issued_at`

	issuedAt := creds.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	err := withBusyRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query,
			credentialsProfile, creds.AccessToken, creds.CompanyID,
			creds.CampaignCode, issuedAt.Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the stored credentials.
func (s *SQLiteStore) DeleteCredentials(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE profile = ?`, credentialsProfile)
	if err != nil {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

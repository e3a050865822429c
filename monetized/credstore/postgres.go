package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresTable = "monetized_credentials"

// PostgresOption configures a PostgresStore.
type PostgresOption func(*PostgresStore)

// WithTableName sets the PostgreSQL table name. Default: "monetized_credentials".
func WithTableName(name string) PostgresOption {
	return func(s *PostgresStore) {
		s.tableName = name
	}
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewPostgresStore creates a PostgreSQL-backed credential store.
// It auto-creates the table on initialization.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{
		pool:      pool,
		tableName: defaultPostgresTable,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !validIdentifier.MatchString(s.tableName) {
		return nil, fmt.Errorf("invalid table name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", s.tableName)
	}
	if pool == nil {
		return nil, errors.New("postgres pool is required")
	}
	if err := s.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name        TEXT PRIMARY KEY,
			license_key TEXT NOT NULL DEFAULT '',
			tier        TEXT NOT NULL DEFAULT 'free',
			endpoint    TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`, s.tableName)
	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, name string) (*Credential, error) {
	query := fmt.Sprintf(`
		SELECT name, license_key, tier, endpoint, created_at, updated_at
		FROM %s WHERE name = $1
	`, s.tableName)

	var c Credential
	err := s.pool.QueryRow(ctx, query, name).Scan(
		&c.Name, &c.LicenseKey, &c.Tier, &c.Endpoint, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) Put(ctx context.Context, cred Credential) (*Credential, error) {
	if cred.Name == "" {
		return nil, ErrInvalidCredential
	}
	now := time.Now()
	query := fmt.Sprintf(`
		INSERT INTO %s (name, license_key, tier, endpoint, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (name) DO UPDATE SET
			license_key = EXCLUDED.license_key,
			tier = EXCLUDED.tier,
			endpoint = EXCLUDED.endpoint,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, s.tableName)

	err := s.pool.QueryRow(ctx, query,
		cred.Name, cred.LicenseKey, cred.Tier, cred.Endpoint, now,
	).Scan(&cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("put credential: %w", err)
	}
	return &cred, nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, s.tableName)
	if _, err := s.pool.Exec(ctx, query, name); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Credential, error) {
	query := fmt.Sprintf(`
		SELECT name, license_key, tier, endpoint, created_at, updated_at
		FROM %s ORDER BY name
	`, s.tableName)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	defer rows.Close()

	var creds []Credential
	for rows.Next() {
		var c Credential
		if err := rows.Scan(&c.Name, &c.LicenseKey, &c.Tier, &c.Endpoint,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, c)
	}
	return creds, rows.Err()
}

func (s *PostgresStore) Close(_ context.Context) error {
	return nil // user manages the pgxpool.Pool lifecycle
}

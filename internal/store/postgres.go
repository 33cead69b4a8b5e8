package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/shortlink/internal/shortener"
)

// PostgresStore is a PostgreSQL implementation of shortener.MappingStore.
// The urls table carries a unique index on short_code.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Create(ctx context.Context, code shortener.Code, longURL string) (bool, error) {
	query := `
		INSERT INTO urls (short_code, long_url)
		VALUES ($1, $2)
		ON CONFLICT (short_code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query, string(code), longURL)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (p *PostgresStore) Find(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT short_code, long_url, created_at
		FROM urls
		WHERE short_code = $1
	`

	var url shortener.ShortURL

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&url.Code,
		&url.LongURL,
		&url.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &url, nil
}

func (p *PostgresStore) Delete(ctx context.Context, code shortener.Code) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM urls WHERE short_code = $1`, string(code))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) List(ctx context.Context) ([]shortener.ShortURL, error) {
	query := `
		SELECT short_code, long_url, created_at
		FROM urls
		ORDER BY created_at DESC, short_code
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (shortener.ShortURL, error) {
		var url shortener.ShortURL

		err := row.Scan(&url.Code, &url.LongURL, &url.CreatedAt)

		return url, err
	})
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

// Compile-time check.
var _ shortener.MappingStore = (*PostgresStore)(nil)

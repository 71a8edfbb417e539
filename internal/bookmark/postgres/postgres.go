// Package postgres loads bookmarks kept in a Postgres table, for setups that
// share a link collection (go-links style) instead of a browser profile.
package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

const defaultTable = "bookmarks"

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Source reads rows of (id, title, url, folder, added_at).
type Source struct {
	name  string
	dsn   string
	table string
	pool  *pgxpool.Pool
}

// New validates the table name; the pool is opened lazily on first Load.
func New(name, dsn, table string) (*Source, error) {
	if name == "" {
		name = "postgres"
	}
	if table == "" {
		table = defaultTable
	}
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("postgres: invalid table name %q", table)
	}
	if dsn == "" {
		return nil, fmt.Errorf("postgres: source %q has no dsn", name)
	}
	return &Source{name: name, dsn: dsn, table: table}, nil
}

func (s *Source) Name() string { return s.name }

func (s *Source) query() string {
	return fmt.Sprintf(
		`SELECT id, COALESCE(title, ''), url, COALESCE(folder, ''), added_at FROM %s ORDER BY id`,
		pgx.Identifier(splitIdentifier(s.table)).Sanitize(),
	)
}

func (s *Source) connect(ctx context.Context) (*pgxpool.Pool, error) {
	if s.pool != nil {
		return s.pool, nil
	}

	pool, err := pgxpool.New(ctx, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	s.pool = pool
	return pool, nil
}

func (s *Source) Load(ctx context.Context) ([]bookmark.Record, error) {
	pool, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("postgres: querying %s: %w", s.table, err)
	}
	defer rows.Close()

	var records []bookmark.Record
	for rows.Next() {
		var (
			id      int64
			rec     bookmark.Record
			addedAt *time.Time
		)
		if err := rows.Scan(&id, &rec.Title, &rec.URL, &rec.Folder, &addedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning row: %w", err)
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.Source = s.name
		if addedAt != nil {
			rec.AddedAt = addedAt.UTC()
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close releases the pool if one was opened.
func (s *Source) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

func splitIdentifier(table string) []string {
	for i := 0; i < len(table); i++ {
		if table[i] == '.' {
			return []string{table[:i], table[i+1:]}
		}
	}
	return []string{table}
}

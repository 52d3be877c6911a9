// Package postgres provides a PostgreSQL implementation of storage.Store.
// It uses pgx/v5 for connection pooling and relies on the database for
// uniqueness and cascade-delete guarantees.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// Store is a PostgreSQL-backed storage.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// CreateUser inserts a user row. The email uniqueness constraint is the
// arbiter under concurrent registration.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*api.User, error) {
	var u api.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, is_staff, is_superuser, created_at
	`, email, passwordHash).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, storage.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return &u, nil
}

// UserByEmail looks up a user by exact, case-sensitive email.
func (s *Store) UserByEmail(ctx context.Context, email string) (*api.User, error) {
	return s.scanUser(ctx, "email = $1", email)
}

// UserByID looks up a user by id.
func (s *Store) UserByID(ctx context.Context, id int64) (*api.User, error) {
	return s.scanUser(ctx, "id = $1", id)
}

func (s *Store) scanUser(ctx context.Context, where string, arg any) (*api.User, error) {
	var u api.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_staff, is_superuser, created_at
		FROM users
		WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// orderClause builds an ORDER BY over an allow-listed column with a
// deterministic id tiebreak. Unknown fields fall back to id, but the
// transport layer rejects them before they get here.
func orderClause(columns map[string]string, by storage.Sort) string {
	col, ok := columns[by.Field]
	if !ok {
		col = "id"
	}
	dir := "ASC"
	if by.Desc {
		dir = "DESC"
	}
	if col == "id" {
		return fmt.Sprintf("ORDER BY id %s", dir)
	}
	return fmt.Sprintf("ORDER BY %s %s, id %s", col, dir, dir)
}

// likePattern wraps a substring filter for ILIKE, escaping the pattern
// metacharacters so user input matches literally.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// isUniqueViolation checks for a PostgreSQL unique violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

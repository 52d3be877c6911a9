package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// systemSortColumns maps wire-level sort field names to columns.
var systemSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"location":   "location",
	"created_at": "created_at",
}

// CreateSystem inserts a system owned by ownerID.
func (s *Store) CreateSystem(ctx context.Context, ownerID int64, name, location string) (*api.System, error) {
	var sys api.System
	err := s.pool.QueryRow(ctx, `
		INSERT INTO systems (owner_id, name, location)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, name, location, created_at
	`, ownerID, name, location).Scan(
		&sys.ID, &sys.OwnerID, &sys.Name, &sys.Location, &sys.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting system: %w", err)
	}
	return &sys, nil
}

// System retrieves a system scoped to its owner. A foreign or missing
// system is uniformly storage.ErrNotFound.
func (s *Store) System(ctx context.Context, ownerID, id int64) (*api.System, error) {
	var sys api.System
	err := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, name, location, created_at
		FROM systems
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(
		&sys.ID, &sys.OwnerID, &sys.Name, &sys.Location, &sys.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying system: %w", err)
	}
	return &sys, nil
}

// UpdateSystem applies a partial update in a single statement; nil fields
// keep their stored values.
func (s *Store) UpdateSystem(ctx context.Context, ownerID, id int64, upd storage.SystemUpdate) (*api.System, error) {
	var sys api.System
	err := s.pool.QueryRow(ctx, `
		UPDATE systems
		SET name = COALESCE($3, name), location = COALESCE($4, location)
		WHERE id = $1 AND owner_id = $2
		RETURNING id, owner_id, name, location, created_at
	`, id, ownerID, upd.Name, upd.Location).Scan(
		&sys.ID, &sys.OwnerID, &sys.Name, &sys.Location, &sys.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating system: %w", err)
	}
	return &sys, nil
}

// DeleteSystem removes a system; the measurements FK cascades.
func (s *Store) DeleteSystem(ctx context.Context, ownerID, id int64) error {
	result, err := s.pool.Exec(ctx,
		"DELETE FROM systems WHERE id = $1 AND owner_id = $2", id, ownerID)
	if err != nil {
		return fmt.Errorf("deleting system: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListSystems returns one page of the owner's systems matching the query,
// plus the total match count.
func (s *Store) ListSystems(ctx context.Context, ownerID int64, q storage.SystemQuery) (*storage.List[api.System], error) {
	where := []string{"owner_id = $1"}
	args := []any{ownerID}

	if q.Name != "" {
		args = append(args, likePattern(q.Name))
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if q.Location != "" {
		args = append(args, likePattern(q.Location))
		where = append(where, fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if q.CreatedAfter != nil {
		args = append(args, *q.CreatedAfter)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.CreatedBefore != nil {
		args = append(args, *q.CreatedBefore)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM systems WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting systems: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, name, location, created_at
		FROM systems
		WHERE %s
		%s`, cond, orderClause(systemSortColumns, q.Sort))

	if q.Page.Size > 0 {
		args = append(args, q.Page.Size, q.Page.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying systems: %w", err)
	}
	defer rows.Close()

	items := []api.System{}
	for rows.Next() {
		var sys api.System
		if err := rows.Scan(&sys.ID, &sys.OwnerID, &sys.Name, &sys.Location, &sys.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning system: %w", err)
		}
		items = append(items, sys)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating systems: %w", err)
	}

	return &storage.List[api.System]{Total: total, Items: items}, nil
}

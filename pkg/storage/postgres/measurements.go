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

// measurementSortColumns maps wire-level sort field names to columns.
var measurementSortColumns = map[string]string{
	"id":          "id",
	"timestamp":   "recorded_at",
	"ph":          "ph",
	"temperature": "temperature",
	"tds":         "tds",
}

// checkSystemOwner verifies the system exists and belongs to ownerID.
// Ownership is re-checked on every call; nothing is cached.
func (s *Store) checkSystemOwner(ctx context.Context, ownerID, systemID int64) error {
	var one int
	err := s.pool.QueryRow(ctx,
		"SELECT 1 FROM systems WHERE id = $1 AND owner_id = $2", systemID, ownerID,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking system owner: %w", err)
	}
	return nil
}

// CreateMeasurement records a reading with a database-assigned timestamp.
func (s *Store) CreateMeasurement(ctx context.Context, ownerID, systemID int64, ph, temperature float64, tds int) (*api.Measurement, error) {
	if err := s.checkSystemOwner(ctx, ownerID, systemID); err != nil {
		return nil, err
	}

	var m api.Measurement
	err := s.pool.QueryRow(ctx, `
		INSERT INTO measurements (system_id, ph, temperature, tds)
		VALUES ($1, $2, $3, $4)
		RETURNING id, system_id, recorded_at, ph, temperature, tds
	`, systemID, ph, temperature, tds).Scan(
		&m.ID, &m.SystemID, &m.Timestamp, &m.PH, &m.Temperature, &m.TDS,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting measurement: %w", err)
	}
	return &m, nil
}

// LatestMeasurements returns up to limit readings, newest first.
func (s *Store) LatestMeasurements(ctx context.Context, ownerID, systemID int64, limit int) ([]api.Measurement, error) {
	if err := s.checkSystemOwner(ctx, ownerID, systemID); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, system_id, recorded_at, ph, temperature, tds
		FROM measurements
		WHERE system_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`, systemID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying latest measurements: %w", err)
	}
	defer rows.Close()

	return scanMeasurements(rows)
}

// ListMeasurements returns one page of the system's measurements matching
// the query, plus the total match count. The requester must own the system.
func (s *Store) ListMeasurements(ctx context.Context, ownerID, systemID int64, q storage.MeasurementQuery) (*storage.List[api.Measurement], error) {
	if err := s.checkSystemOwner(ctx, ownerID, systemID); err != nil {
		return nil, err
	}

	where := []string{"system_id = $1"}
	args := []any{systemID}

	addCond := func(col, op string, val any) {
		args = append(args, val)
		where = append(where, fmt.Sprintf("%s %s $%d", col, op, len(args)))
	}

	if q.PHMin != nil {
		addCond("ph", ">=", *q.PHMin)
	}
	if q.PHMax != nil {
		addCond("ph", "<=", *q.PHMax)
	}
	if q.TemperatureMin != nil {
		addCond("temperature", ">=", *q.TemperatureMin)
	}
	if q.TemperatureMax != nil {
		addCond("temperature", "<=", *q.TemperatureMax)
	}
	if q.TDSMin != nil {
		addCond("tds", ">=", *q.TDSMin)
	}
	if q.TDSMax != nil {
		addCond("tds", "<=", *q.TDSMax)
	}
	if q.After != nil {
		addCond("recorded_at", ">=", *q.After)
	}
	if q.Before != nil {
		addCond("recorded_at", "<=", *q.Before)
	}

	cond := strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM measurements WHERE "+cond, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting measurements: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, system_id, recorded_at, ph, temperature, tds
		FROM measurements
		WHERE %s
		%s`, cond, orderClause(measurementSortColumns, q.Sort))

	if q.Page.Size > 0 {
		args = append(args, q.Page.Size, q.Page.Offset())
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying measurements: %w", err)
	}
	defer rows.Close()

	items, err := scanMeasurements(rows)
	if err != nil {
		return nil, err
	}

	return &storage.List[api.Measurement]{Total: total, Items: items}, nil
}

// scanMeasurements drains rows into a slice, never returning nil.
func scanMeasurements(rows pgx.Rows) ([]api.Measurement, error) {
	items := []api.Measurement{}
	for rows.Next() {
		var m api.Measurement
		if err := rows.Scan(&m.ID, &m.SystemID, &m.Timestamp, &m.PH, &m.Temperature, &m.TDS); err != nil {
			return nil, fmt.Errorf("scanning measurement: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating measurements: %w", err)
	}
	return items, nil
}

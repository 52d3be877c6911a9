package storage

import (
	"context"

	"github.com/hydrolog/hydrolog/pkg/api"
)

// UserStore persists registered accounts.
type UserStore interface {
	// CreateUser inserts a new user with the given bcrypt hash.
	// Returns ErrDuplicateEmail if the email is taken.
	CreateUser(ctx context.Context, email, passwordHash string) (*api.User, error)

	// UserByEmail looks up a user by exact, case-sensitive email.
	UserByEmail(ctx context.Context, email string) (*api.User, error)

	// UserByID looks up a user by id.
	UserByID(ctx context.Context, id int64) (*api.User, error)
}

// SystemStore persists hydroponic systems. All operations except create
// are scoped to ownerID; a mismatch yields ErrNotFound.
type SystemStore interface {
	CreateSystem(ctx context.Context, ownerID int64, name, location string) (*api.System, error)

	System(ctx context.Context, ownerID, id int64) (*api.System, error)

	// UpdateSystem applies a partial update. Nil fields keep their values.
	UpdateSystem(ctx context.Context, ownerID, id int64, upd SystemUpdate) (*api.System, error)

	// DeleteSystem removes a system and, by cascade, its measurements.
	DeleteSystem(ctx context.Context, ownerID, id int64) error

	ListSystems(ctx context.Context, ownerID int64, q SystemQuery) (*List[api.System], error)
}

// MeasurementStore persists sensor readings. Access goes through the
// parent system, so every operation carries the owner id alongside the
// system id and fails with ErrNotFound when they do not match.
type MeasurementStore interface {
	// CreateMeasurement records a reading with a server-assigned timestamp.
	CreateMeasurement(ctx context.Context, ownerID, systemID int64, ph, temperature float64, tds int) (*api.Measurement, error)

	// LatestMeasurements returns up to limit readings, newest first.
	LatestMeasurements(ctx context.Context, ownerID, systemID int64, limit int) ([]api.Measurement, error)

	ListMeasurements(ctx context.Context, ownerID, systemID int64, q MeasurementQuery) (*List[api.Measurement], error)
}

// Store is the full persistence surface the server wires up.
type Store interface {
	UserStore
	SystemStore
	MeasurementStore

	// HealthCheck verifies the backing store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases held resources.
	Close() error
}

// SystemUpdate carries a partial field replacement for a system.
type SystemUpdate struct {
	Name     *string
	Location *string
}

// Package memory provides an in-memory implementation of storage.Store
// for testing and lightweight deployments. Data is lost when the process
// restarts. Filter, sort, pagination, and cascade-delete semantics match
// the postgres adapter.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

// Store is an in-memory storage.Store.
type Store struct {
	mu sync.RWMutex

	users        map[int64]*api.User
	usersByEmail map[string]int64
	systems      map[int64]*api.System
	measurements map[int64]*api.Measurement

	nextUserID        int64
	nextSystemID      int64
	nextMeasurementID int64
}

// Ensure Store implements storage.Store at compile time.
var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:        make(map[int64]*api.User),
		usersByEmail: make(map[string]int64),
		systems:      make(map[int64]*api.System),
		measurements: make(map[int64]*api.Measurement),
	}
}

// CreateUser inserts a new user. Email matching is exact and case-sensitive.
func (s *Store) CreateUser(_ context.Context, email, passwordHash string) (*api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[email]; exists {
		return nil, storage.ErrDuplicateEmail
	}

	s.nextUserID++
	u := &api.User{
		ID:           s.nextUserID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.usersByEmail[email] = u.ID

	out := *u
	return &out, nil
}

// UserByEmail looks up a user by exact email.
func (s *Store) UserByEmail(_ context.Context, email string) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *s.users[id]
	return &out, nil
}

// UserByID looks up a user by id.
func (s *Store) UserByID(_ context.Context, id int64) (*api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := *u
	return &out, nil
}

// CreateSystem inserts a system owned by ownerID.
func (s *Store) CreateSystem(_ context.Context, ownerID int64, name, location string) (*api.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSystemID++
	sys := &api.System{
		ID:        s.nextSystemID,
		OwnerID:   ownerID,
		Name:      name,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}
	s.systems[sys.ID] = sys

	out := *sys
	return &out, nil
}

// System retrieves a system scoped to its owner.
func (s *Store) System(_ context.Context, ownerID, id int64) (*api.System, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sys, err := s.ownedSystem(ownerID, id)
	if err != nil {
		return nil, err
	}
	out := *sys
	return &out, nil
}

// UpdateSystem applies a partial update, owner-scoped.
func (s *Store) UpdateSystem(_ context.Context, ownerID, id int64, upd storage.SystemUpdate) (*api.System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sys, err := s.ownedSystem(ownerID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		sys.Name = *upd.Name
	}
	if upd.Location != nil {
		sys.Location = *upd.Location
	}

	out := *sys
	return &out, nil
}

// DeleteSystem removes a system and cascades to its measurements.
func (s *Store) DeleteSystem(_ context.Context, ownerID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedSystem(ownerID, id); err != nil {
		return err
	}

	delete(s.systems, id)
	for mid, m := range s.measurements {
		if m.SystemID == id {
			delete(s.measurements, mid)
		}
	}
	return nil
}

// ListSystems returns the owner's systems matching the query.
func (s *Store) ListSystems(_ context.Context, ownerID int64, q storage.SystemQuery) (*storage.List[api.System], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []api.System
	for _, sys := range s.systems {
		if sys.OwnerID != ownerID {
			continue
		}
		if q.Name != "" && !containsFold(sys.Name, q.Name) {
			continue
		}
		if q.Location != "" && !containsFold(sys.Location, q.Location) {
			continue
		}
		if q.CreatedAfter != nil && sys.CreatedAt.Before(*q.CreatedAfter) {
			continue
		}
		if q.CreatedBefore != nil && sys.CreatedAt.After(*q.CreatedBefore) {
			continue
		}
		matches = append(matches, *sys)
	}

	sortSystems(matches, q.Sort)
	total := len(matches)
	return &storage.List[api.System]{Total: total, Items: pageSlice(matches, q.Page)}, nil
}

// CreateMeasurement records a reading with a server-assigned timestamp.
// The parent system must exist and belong to ownerID.
func (s *Store) CreateMeasurement(_ context.Context, ownerID, systemID int64, ph, temperature float64, tds int) (*api.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.ownedSystem(ownerID, systemID); err != nil {
		return nil, err
	}

	s.nextMeasurementID++
	m := &api.Measurement{
		ID:          s.nextMeasurementID,
		SystemID:    systemID,
		Timestamp:   time.Now().UTC(),
		PH:          ph,
		Temperature: temperature,
		TDS:         tds,
	}
	s.measurements[m.ID] = m

	out := *m
	return &out, nil
}

// LatestMeasurements returns up to limit readings, newest first.
func (s *Store) LatestMeasurements(_ context.Context, ownerID, systemID int64, limit int) ([]api.Measurement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.ownedSystem(ownerID, systemID); err != nil {
		return nil, err
	}

	var matches []api.Measurement
	for _, m := range s.measurements {
		if m.SystemID == systemID {
			matches = append(matches, *m)
		}
	}

	sortMeasurements(matches, storage.Sort{Field: "timestamp", Desc: true})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	if matches == nil {
		matches = []api.Measurement{}
	}
	return matches, nil
}

// ListMeasurements returns the system's measurements matching the query,
// owner-scoped.
func (s *Store) ListMeasurements(_ context.Context, ownerID, systemID int64, q storage.MeasurementQuery) (*storage.List[api.Measurement], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.ownedSystem(ownerID, systemID); err != nil {
		return nil, err
	}

	var matches []api.Measurement
	for _, m := range s.measurements {
		if m.SystemID != systemID {
			continue
		}
		if q.PHMin != nil && m.PH < *q.PHMin {
			continue
		}
		if q.PHMax != nil && m.PH > *q.PHMax {
			continue
		}
		if q.TemperatureMin != nil && m.Temperature < *q.TemperatureMin {
			continue
		}
		if q.TemperatureMax != nil && m.Temperature > *q.TemperatureMax {
			continue
		}
		if q.TDSMin != nil && m.TDS < *q.TDSMin {
			continue
		}
		if q.TDSMax != nil && m.TDS > *q.TDSMax {
			continue
		}
		if q.After != nil && m.Timestamp.Before(*q.After) {
			continue
		}
		if q.Before != nil && m.Timestamp.After(*q.Before) {
			continue
		}
		matches = append(matches, *m)
	}

	sortMeasurements(matches, q.Sort)
	total := len(matches)
	return &storage.List[api.Measurement]{Total: total, Items: pageSlice(matches, q.Page)}, nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// ownedSystem returns the live system record if id exists and belongs to
// ownerID. Must be called with s.mu held.
func (s *Store) ownedSystem(ownerID, id int64) (*api.System, error) {
	sys, ok := s.systems[id]
	if !ok || sys.OwnerID != ownerID {
		return nil, storage.ErrNotFound
	}
	return sys, nil
}

// containsFold reports whether substr occurs in s, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// pageSlice cuts one page out of items. A zero page size means no paging.
func pageSlice[T any](items []T, p storage.Page) []T {
	if items == nil {
		return []T{}
	}
	if p.Size <= 0 {
		return items
	}
	off := p.Offset()
	if off >= len(items) {
		return []T{}
	}
	end := off + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}

// sortSystems orders systems by the requested field with an id tiebreak.
// An empty field sorts by id ascending.
func sortSystems(items []api.System, by storage.Sort) {
	field := by.Field
	if field == "" {
		field = "id"
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if by.Desc {
			a, b = b, a
		}
		switch field {
		case "name":
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case "location":
			if a.Location != b.Location {
				return a.Location < b.Location
			}
		case "created_at":
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		}
		return a.ID < b.ID
	})
}

// sortMeasurements orders measurements by the requested field with an id
// tiebreak. An empty field sorts by id ascending.
func sortMeasurements(items []api.Measurement, by storage.Sort) {
	field := by.Field
	if field == "" {
		field = "id"
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if by.Desc {
			a, b = b, a
		}
		switch field {
		case "timestamp":
			if !a.Timestamp.Equal(b.Timestamp) {
				return a.Timestamp.Before(b.Timestamp)
			}
		case "ph":
			if a.PH != b.PH {
				return a.PH < b.PH
			}
		case "temperature":
			if a.Temperature != b.Temperature {
				return a.Temperature < b.Temperature
			}
		case "tds":
			if a.TDS != b.TDS {
				return a.TDS < b.TDS
			}
		}
		return a.ID < b.ID
	})
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/hydrolog/hydrolog/pkg/api"
	"github.com/hydrolog/hydrolog/pkg/storage"
)

func init() {
	// Configure testcontainers to use podman.
	// Detect the podman socket from `podman machine inspect`.
	if os.Getenv("DOCKER_HOST") == "" {
		out, err := exec.Command("podman", "machine", "inspect", "--format", "{{.ConnectionInfo.PodmanSocket.Path}}").Output()
		if err == nil {
			sock := strings.TrimSpace(string(out))
			if sock != "" {
				os.Setenv("DOCKER_HOST", "unix://"+sock)
			}
		}
	}
	// Ryuk needs privileged mode with podman.
	if os.Getenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED", "true")
	}
}

// setupTestDB starts a PostgreSQL container and returns a connected Store.
// Tests are skipped if no container runtime is available.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	if _, err := exec.LookPath("podman"); err != nil {
		t.Skip("podman not found, skipping integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("hydrolog_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container (is podman running?): %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	store, err := New(ctx, Config{
		DSN:            connStr,
		MaxConns:       5,
		MinConns:       1,
		MigrateOnStart: true,
	})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

// createTestUser inserts a user with a unique email.
func createTestUser(t *testing.T, store *Store, label string) *api.User {
	t.Helper()
	email := fmt.Sprintf("%s_%d@example.com", label, time.Now().UnixNano())
	u, err := store.CreateUser(context.Background(), email, "bcrypt-hash")
	if err != nil {
		t.Fatalf("creating user %s: %v", label, err)
	}
	return u
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, store, "dup")
	_, err := store.CreateUser(ctx, u.Email, "other-hash")
	if !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	// Exactly one row persists.
	got, err := store.UserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("surviving user id = %d, want %d", got.ID, u.ID)
	}
}

func TestPostgres_SystemCRUD(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "crud")

	sys, err := store.CreateSystem(ctx, owner.ID, "Greenhouse A", "Farm #1")
	if err != nil {
		t.Fatalf("CreateSystem failed: %v", err)
	}
	if sys.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}

	got, err := store.System(ctx, owner.ID, sys.ID)
	if err != nil {
		t.Fatalf("System failed: %v", err)
	}
	if got.Name != "Greenhouse A" || got.Location != "Farm #1" {
		t.Errorf("got %+v, want name/location round-tripped", got)
	}

	name := "Greenhouse B"
	updated, err := store.UpdateSystem(ctx, owner.ID, sys.ID, storage.SystemUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateSystem failed: %v", err)
	}
	if updated.Name != "Greenhouse B" || updated.Location != "Farm #1" {
		t.Errorf("partial update got %+v", updated)
	}

	if err := store.DeleteSystem(ctx, owner.ID, sys.ID); err != nil {
		t.Fatalf("DeleteSystem failed: %v", err)
	}
	if _, err := store.System(ctx, owner.ID, sys.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPostgres_OwnerIsolation(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, store, "alice")
	bob := createTestUser(t, store, "bob")

	sys, err := store.CreateSystem(ctx, alice.ID, "Greenhouse A", "")
	if err != nil {
		t.Fatalf("CreateSystem failed: %v", err)
	}

	if _, err := store.System(ctx, bob.ID, sys.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign retrieve: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteSystem(ctx, bob.ID, sys.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if _, err := store.CreateMeasurement(ctx, bob.ID, sys.ID, 6.5, 22, 800); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("foreign measurement create: expected ErrNotFound, got %v", err)
	}

	list, err := store.ListSystems(ctx, bob.ID, storage.SystemQuery{})
	if err != nil {
		t.Fatalf("ListSystems failed: %v", err)
	}
	for _, item := range list.Items {
		if item.ID == sys.ID {
			t.Error("foreign system leaked into list")
		}
	}
}

func TestPostgres_CascadeDelete(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "cascade")
	sys, _ := store.CreateSystem(ctx, owner.ID, "Greenhouse A", "")
	for range 3 {
		if _, err := store.CreateMeasurement(ctx, owner.ID, sys.ID, 6.5, 22, 800); err != nil {
			t.Fatalf("CreateMeasurement failed: %v", err)
		}
	}

	if err := store.DeleteSystem(ctx, owner.ID, sys.ID); err != nil {
		t.Fatalf("DeleteSystem failed: %v", err)
	}

	var remaining int
	if err := store.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM measurements WHERE system_id = $1", sys.ID,
	).Scan(&remaining); err != nil {
		t.Fatalf("counting measurements: %v", err)
	}
	if remaining != 0 {
		t.Errorf("measurements after cascade = %d, want 0", remaining)
	}
}

func TestPostgres_ListMeasurementsFilterSortPage(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "filters")
	sys, _ := store.CreateSystem(ctx, owner.ID, "Greenhouse A", "")

	phs := []float64{5.5, 6.0, 6.5, 7.0, 7.5}
	for _, ph := range phs {
		if _, err := store.CreateMeasurement(ctx, owner.ID, sys.ID, ph, 22, 800); err != nil {
			t.Fatalf("CreateMeasurement failed: %v", err)
		}
	}

	min, max := 6.0, 7.0
	list, err := store.ListMeasurements(ctx, owner.ID, sys.ID, storage.MeasurementQuery{
		PHMin: &min,
		PHMax: &max,
		Sort:  storage.Sort{Field: "ph", Desc: true},
		Page:  storage.Page{Number: 1, Size: 2},
	})
	if err != nil {
		t.Fatalf("ListMeasurements failed: %v", err)
	}

	if list.Total != 3 {
		t.Errorf("total = %d, want 3 (inclusive bounds, full count)", list.Total)
	}
	if len(list.Items) != 2 {
		t.Errorf("page items = %d, want 2", len(list.Items))
	}
	if len(list.Items) == 2 && list.Items[0].PH < list.Items[1].PH {
		t.Errorf("items not descending by ph: %v, %v", list.Items[0].PH, list.Items[1].PH)
	}
}

func TestPostgres_ListSystemsNameFilter(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "namefilter")
	store.CreateSystem(ctx, owner.ID, "Greenhouse A", "North Farm")
	store.CreateSystem(ctx, owner.ID, "Basement Rig", "Cellar")

	list, err := store.ListSystems(ctx, owner.ID, storage.SystemQuery{Name: "greenHOUSE"})
	if err != nil {
		t.Fatalf("ListSystems failed: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("case-insensitive name filter total = %d, want 1", list.Total)
	}

	// Pattern metacharacters match literally, not as wildcards.
	list, err = store.ListSystems(ctx, owner.ID, storage.SystemQuery{Name: "%"})
	if err != nil {
		t.Fatalf("ListSystems failed: %v", err)
	}
	if list.Total != 0 {
		t.Errorf("literal %% filter total = %d, want 0", list.Total)
	}
}

func TestPostgres_HealthCheck(t *testing.T) {
	store := setupTestDB(t)
	if err := store.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"avin-home/internal/storage"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	svc, err := Open(connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}
	testDB = svc.DB()

	migrations, err := Migrations("")
	if err != nil {
		return dbContainer.Terminate, err
	}
	if err := RunMigrations(context.Background(), testDB, migrations, zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		// migration file checks still run without docker
		log.Printf("postgres container unavailable, skipping database tests: %v", err)
		testDB = nil
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func requireDB(t *testing.T) *sql.DB {
	t.Helper()
	if testDB == nil {
		t.Skip("postgres container not available")
	}
	return testDB
}

func TestSnapshotStoreMissingKey(t *testing.T) {
	store := NewSnapshotStore(requireDB(t))

	_, err := store.Get(context.Background(), "missing-key")
	if !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound, got %v", err)
	}
}

func TestSnapshotStoreUpsertAndDelete(t *testing.T) {
	store := NewSnapshotStore(requireDB(t))
	ctx := context.Background()
	key := storage.CartKey("upsert-test")

	if err := store.Set(ctx, key, []byte(`{"items":[]}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, key, []byte(`{"items":[{"id":"p1","quantity":2}]}`)); err != nil {
		t.Fatalf("Second Set failed: %v", err)
	}

	raw, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var decoded struct {
		Items []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Stored value is not JSON: %v", err)
	}
	if len(decoded.Items) != 1 || decoded.Items[0].Quantity != 2 {
		t.Errorf("Expected the latest value to win, got %s", raw)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound after delete, got %v", err)
	}
}

// Property: snapshots written through postgres reload unchanged
func TestProperty_PostgresSnapshotRoundTrip(t *testing.T) {
	store := NewSnapshotStore(requireDB(t))

	type entry struct {
		Name  string `json:"name"`
		Stock int    `json:"stock"`
	}

	properties := gopter.NewProperties(nil)

	properties.Property("snapshot reloads with the same entries in the same order", prop.ForAll(
		func(names []string, stock int) bool {
			ctx := context.Background()
			entries := make([]entry, len(names))
			for i, name := range names {
				entries[i] = entry{Name: name, Stock: stock + i}
			}

			snap := storage.NewSnapshot[[]entry](store, storage.OrdersKey, zap.NewNop())
			if err := snap.Save(ctx, entries); err != nil {
				t.Logf("FAIL: save: %v", err)
				return false
			}

			loaded, found, err := snap.Load(ctx)
			if err != nil || !found {
				t.Logf("FAIL: load: found=%v err=%v", found, err)
				return false
			}
			if len(loaded) != len(entries) {
				return false
			}
			for i := range entries {
				if loaded[i] != entries[i] {
					t.Logf("FAIL: entry %d mismatch: %+v vs %+v", i, loaded[i], entries[i])
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

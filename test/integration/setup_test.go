package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/herdsafe/herdsafe/internal/domain/catalog"
	"github.com/herdsafe/herdsafe/internal/domain/registry"
	"github.com/herdsafe/herdsafe/internal/domain/treatment"
	"github.com/herdsafe/herdsafe/internal/domain/withdrawal"
	"github.com/herdsafe/herdsafe/internal/platform/db"
)

// testDB holds the shared database infrastructure for integration tests.
type testDB struct {
	Pool    *pgxpool.Pool
	ConnStr string
}

var globalDB *testDB

func TestMain(m *testing.M) {
	ctx := context.Background()

	connStr, cleanup, err := startPostgresContainer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}

	migrator := db.NewMigrator(pool, findMigrationsDir())
	if _, err := migrator.Up(ctx); err != nil {
		pool.Close()
		cleanup()
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	globalDB = &testDB{Pool: pool, ConnStr: connStr}
	code := m.Run()
	pool.Close()
	cleanup()
	os.Exit(code)
}

// findMigrationsDir locates the migrations directory relative to this test file.
func findMigrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)
	// test/integration -> repo root
	return filepath.Join(dir, "..", "..", "migrations")
}

// services wires the full domain stack against the test database.
type services struct {
	Registry   *registry.Service
	Catalog    *catalog.Service
	Withdrawal *withdrawal.Service
	Treatment  *treatment.Service
}

func newServices() *services {
	pool := globalDB.Pool
	logger := zerolog.Nop()

	registrySvc := registry.NewService(
		registry.NewFarmerRepoPG(pool),
		registry.NewVetRepoPG(pool),
		registry.NewAnimalRepoPG(pool),
	)
	catalogSvc := catalog.NewService(catalog.NewRepoPG(pool))
	withdrawalSvc := withdrawal.NewService(
		withdrawal.NewAlertRepoPG(pool),
		withdrawal.NewConsumerCheckRepoPG(pool),
		registrySvc,
		logger,
	)
	processor := treatment.NewPrescriptionProcessor(catalogSvc, logger)
	treatmentSvc := treatment.NewService(
		treatment.NewRepoPG(pool),
		processor,
		registrySvc,
		withdrawalSvc,
		pool,
		logger,
	)

	return &services{
		Registry:   registrySvc,
		Catalog:    catalogSvc,
		Withdrawal: withdrawalSvc,
		Treatment:  treatmentSvc,
	}
}

func registerFarmer(t *testing.T, ctx context.Context, svc *services) *registry.Farmer {
	t.Helper()
	f := &registry.Farmer{Subject: "farmer|" + uuid.New().String(), Name: "Test Farmer"}
	if err := svc.Registry.RegisterFarmer(ctx, f); err != nil {
		t.Fatalf("register farmer: %v", err)
	}
	return f
}

func registerVet(t *testing.T, ctx context.Context, svc *services) *registry.Vet {
	t.Helper()
	v := &registry.Vet{Subject: "vet|" + uuid.New().String(), Name: "Test Vet", LicenseNumber: "VET-1"}
	if err := svc.Registry.RegisterVet(ctx, v); err != nil {
		t.Fatalf("register vet: %v", err)
	}
	return v
}

func registerAnimal(t *testing.T, ctx context.Context, svc *services, farmerID uuid.UUID) *registry.Animal {
	t.Helper()
	a := &registry.Animal{
		FarmerID:  farmerID,
		Species:   "cow",
		TagNumber: "TAG-" + uuid.New().String()[:8],
	}
	if err := svc.Registry.RegisterAnimal(ctx, a); err != nil {
		t.Fatalf("register animal: %v", err)
	}
	return a
}

func createMedicine(t *testing.T, ctx context.Context, svc *services, name string, withdrawalDays int) *catalog.AuthorizedMedicine {
	t.Helper()
	m := &catalog.AuthorizedMedicine{
		Name:                 name,
		Dosage:               "10ml twice daily",
		WithdrawalPeriodDays: withdrawalDays,
	}
	if err := svc.Catalog.CreateMedicine(ctx, m); err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	return m
}

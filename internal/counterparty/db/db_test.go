package db

import (
	"context"
	"testing"

	dbmodels "github.com/gartstein/counterparty/internal/counterparty/db/models"
	e "github.com/gartstein/counterparty/internal/counterparty/errors"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&dbmodels.SeedCounterparty{})
	require.NoError(t, err, "failed to migrate test database")

	return &Repository{db: db}
}

// TestEnsureDefaultSeed checks that an empty catalog receives the demo records.
func TestEnsureDefaultSeed(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.EnsureDefaultSeed(ctx))

	seed, err := repo.ListSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSeed(), seed, "catalog should hold the demo records in order")
}

// TestEnsureDefaultSeedKeepsExisting verifies a populated catalog is left alone.
func TestEnsureDefaultSeedKeepsExisting(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	custom := []models.Counterparty{
		{ID: "x", CompanyName: "АО Ромашка", TaxID: "5000000000", Status: models.StatusPending},
	}
	require.NoError(t, repo.ReplaceSeed(ctx, custom))
	require.NoError(t, repo.EnsureDefaultSeed(ctx))

	seed, err := repo.ListSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, seed)
}

// TestReplaceSeedKeepsOrder ensures insertion order survives a round trip
// even when ids do not sort the same way.
func TestReplaceSeedKeepsOrder(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	records := []models.Counterparty{
		{ID: "z", CompanyName: "Zeta", TaxID: "3", Status: models.StatusActive},
		{ID: "a", CompanyName: "Alpha", TaxID: "1", Status: models.StatusPending},
		{ID: "m", CompanyName: "Mu", TaxID: "2", Status: models.StatusInvited},
	}
	require.NoError(t, repo.ReplaceSeed(ctx, records))

	seed, err := repo.ListSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, seed)

	require.NoError(t, repo.ReplaceSeed(ctx, records[:1]))
	seed, err = repo.ListSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, records[:1], seed, "replace should drop previous rows")
}

// TestReplaceSeedRejectsUnknownStatus verifies nothing is written on bad input.
func TestReplaceSeedRejectsUnknownStatus(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureDefaultSeed(ctx))

	err := repo.ReplaceSeed(ctx, []models.Counterparty{{ID: "1", CompanyName: "X", TaxID: "1", Status: "archived"}})
	assert.ErrorIs(t, err, e.ErrInvalidInput)

	seed, err := repo.ListSeed(ctx)
	require.NoError(t, err)
	assert.Len(t, seed, 3)
}

// TestReplaceSeedEmpty clears the catalog.
func TestReplaceSeedEmpty(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()
	require.NoError(t, repo.EnsureDefaultSeed(ctx))

	require.NoError(t, repo.ReplaceSeed(ctx, nil))
	seed, err := repo.ListSeed(ctx)
	require.NoError(t, err)
	assert.Empty(t, seed)
}

// TestNewRepositorySQLite opens a repository through the sqlite driver option.
func TestNewRepositorySQLite(t *testing.T) {
	repo, err := NewRepository(&Config{Driver: DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.EnsureDefaultSeed(context.Background()))
}

// TestNewRepositoryUnknownDriver rejects unsupported drivers.
func TestNewRepositoryUnknownDriver(t *testing.T) {
	_, err := NewRepository(&Config{Driver: "oracle"})
	assert.ErrorIs(t, err, e.ErrInvalidInput)
}

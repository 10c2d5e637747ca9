// Package db provides the gorm-backed seed catalog: the demo collection that
// new sessions start with and that "load demo data" restores.
package db

import (
	"context"
	"fmt"

	dbmodels "github.com/gartstein/counterparty/internal/counterparty/db/models"
	e "github.com/gartstein/counterparty/internal/counterparty/errors"
	"github.com/gartstein/counterparty/internal/counterparty/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the SQLite file, ":memory:" for a throwaway database.
	Path string
}

// DefaultSeed is the demo collection inserted into an empty catalog.
func DefaultSeed() []models.Counterparty {
	return []models.Counterparty{
		{ID: "1", CompanyName: "ООО Транспортная Компания", TaxID: "7701234567", Status: models.StatusActive},
		{ID: "2", CompanyName: "ИП Сергеев И.П.", TaxID: "771234567890", Status: models.StatusInvited},
		{ID: "3", CompanyName: "ООО Строительная Группа", TaxID: "7712345678", Status: models.StatusPending},
	}
}

func NewRepository(cfg *Config) (*Repository, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// every connection to :memory: opens a new empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&dbmodels.SeedCounterparty{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func dialectorFor(cfg *Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		path := cfg.Path
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", e.ErrInvalidInput, cfg.Driver)
	}
}

// ListSeed returns the catalog in insertion order.
func (r *Repository) ListSeed(ctx context.Context) ([]models.Counterparty, error) {
	var rows []dbmodels.SeedCounterparty
	result := r.db.WithContext(ctx).Order("position asc").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	out := make([]models.Counterparty, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Counterparty{
			ID:          row.ID,
			CompanyName: row.CompanyName,
			TaxID:       row.TaxID,
			Status:      models.Status(row.Status),
		})
	}
	return out, nil
}

// ReplaceSeed swaps the whole catalog for records in one transaction.
func (r *Repository) ReplaceSeed(ctx context.Context, records []models.Counterparty) error {
	for _, cp := range records {
		if !cp.Status.Valid() {
			return fmt.Errorf("%w: counterparty %s has status %q", e.ErrInvalidInput, cp.ID, cp.Status)
		}
	}

	return r.WithTransaction(ctx, func(repo *Repository) error {
		if err := repo.db.Where("1 = 1").Delete(&dbmodels.SeedCounterparty{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		rows := make([]dbmodels.SeedCounterparty, 0, len(records))
		for i, cp := range records {
			rows = append(rows, dbmodels.SeedCounterparty{
				ID:          cp.ID,
				Position:    i,
				CompanyName: cp.CompanyName,
				TaxID:       cp.TaxID,
				Status:      string(cp.Status),
			})
		}
		return repo.db.Create(&rows).Error
	})
}

// EnsureDefaultSeed fills an empty catalog with DefaultSeed.
func (r *Repository) EnsureDefaultSeed(ctx context.Context) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&dbmodels.SeedCounterparty{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.ReplaceSeed(ctx, DefaultSeed())
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

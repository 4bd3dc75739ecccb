// internal/database/connection_test.go
package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/config"
	"github.com/pimstack/pim-backend/internal/models"
)

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		Type:         "sqlite",
		SQLitePath:   filepath.Join(t.TempDir(), "test.sqlite"),
		MaxOpenConns: 5,
		MaxIdleConns: 5,
		MaxLifetime:  60,
		QueryTimeout: 10,
	}
}

func TestInitializeSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))
	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasTable("status_history"))
	assert.True(t, db.Migrator().HasTable("imei_mac"))
	assert.True(t, db.Migrator().HasTable("accessories"))
}

func TestInitializeFallsBackToSQLite(t *testing.T) {
	// Port 1 on loopback refuses immediately; startup must settle on the
	// embedded fallback rather than erroring out.
	cfg := sqliteConfig(t)
	cfg.Type = "mysql"
	cfg.Host = "127.0.0.1"
	cfg.Port = "1"
	cfg.User = "pim"
	cfg.Database = "pim_database"

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer Close(db)

	assert.Equal(t, "sqlite", db.Dialector.Name())
}

func TestSeedInitialData(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, SeedInitialData(db, cfg))

	var categories, statusTypes, propertyTypes, languages, fields, admins int64
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.StatusType{}).Count(&statusTypes)
	db.Model(&models.PropertyType{}).Count(&propertyTypes)
	db.Model(&models.Language{}).Count(&languages)
	db.Model(&models.PackagingLogisticsField{}).Count(&fields)
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&admins)

	assert.Equal(t, int64(5), categories)
	assert.Equal(t, int64(4), statusTypes)
	assert.Equal(t, int64(5), propertyTypes)
	assert.Equal(t, int64(5), languages)
	assert.Equal(t, int64(4), fields)
	assert.Equal(t, int64(1), admins)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.CheckPassword("admin"))

	// Seeding is idempotent.
	require.NoError(t, SeedInitialData(db, cfg))
	db.Model(&models.Category{}).Count(&categories)
	assert.Equal(t, int64(5), categories)
}

func TestSeedDemoProducts(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.SeedDemoData = true

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))
	require.NoError(t, SeedInitialData(db, cfg))

	var products, contents int64
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.PackageContent{}).Count(&contents)
	assert.Equal(t, int64(3), products)
	assert.Equal(t, int64(4), contents)
}

func TestWithTransactionRollsBack(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))

	boom := errors.New("boom")
	err = WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Category{Name: "Doomed"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	db.Model(&models.Category{}).Where("name = ?", "Doomed").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := sqliteConfig(t)
	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, RunMigrations(db))

	// A child row pointing at a missing product must be rejected.
	err = db.Create(&models.PackageContent{ProductID: 999, Item: "Orphan", Quantity: 1}).Error
	assert.Error(t, err)
}

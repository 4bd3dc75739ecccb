// internal/database/connection.go
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pimstack/pim-backend/internal/config"
	"github.com/pimstack/pim-backend/internal/models"
)

// Initialize connects to the configured store. If the networked store is
// unreachable it falls back to the embedded SQLite file. The fallback
// decision is made exactly once, here at startup, never per request.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if cfg.LogLevel == "info" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	var db *gorm.DB
	var err error

	switch cfg.Type {
	case "mysql":
		db, err = gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	case "sqlite":
		return openSQLite(cfg, gormConfig)
	}

	if err != nil {
		logrus.WithError(err).Warnf("%s unreachable, falling back to embedded SQLite", cfg.Type)
		return openSQLite(cfg, gormConfig)
	}

	if sqlDB, pingErr := db.DB(); pingErr != nil || sqlDB.Ping() != nil {
		logrus.Warnf("%s did not answer ping, falling back to embedded SQLite", cfg.Type)
		return openSQLite(cfg, gormConfig)
	}

	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}

	logrus.Infof("Connected to %s database %s", cfg.Type, cfg.Database)
	return db, nil
}

func openSQLite(cfg config.DatabaseConfig, gormConfig *gorm.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Foreign keys are off by default in SQLite; the cascade rules in the
	// schema depend on them.
	dsn := cfg.SQLitePath + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := configurePool(db, cfg); err != nil {
		return nil, err
	}

	logrus.Infof("Connected to SQLite database %s", cfg.SQLitePath)
	return db, nil
}

func configurePool(db *gorm.DB, cfg config.DatabaseConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	return nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	}
}

// RunMigrations creates or updates the schema. The per-column delete
// policies (CASCADE to child rows, SET NULL on product references) live in
// the model constraint tags, so they end up in the schema rather than in
// application code.
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Category{},
		&models.StatusType{},
		&models.PropertyType{},
		&models.Language{},
		&models.PackagingLogisticsField{},
		&models.Product{},
		&models.PackageContent{},
		&models.Property{},
		&models.ProductLanguage{},
		&models.StatusHistoryEntry{},
		&models.PackagingLogisticsValue{},
		&models.Address{},
		&models.ProductCategory{},
		&models.CompatibleProduct{},
		&models.Accessory{},
		&models.SerialNumber{},
		&models.ImeiMac{},
		&models.Software{},
		&models.UserManual{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_model ON products(model)",
		"CREATE INDEX IF NOT EXISTS idx_products_ean ON products(ean)",
		"CREATE INDEX IF NOT EXISTS idx_status_history_product_date ON status_history(product_id, date DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData inserts the catalog rows and the admin user on first
// boot. Demo products are gated behind SEED_DEMO_DATA.
func SeedInitialData(db *gorm.DB, cfg config.DatabaseConfig) error {
	if err := seedCatalogs(db); err != nil {
		return err
	}

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Role:     models.UserRoleAdmin,
		}
		if err := admin.SetPassword(getSeedAdminPassword()); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}
		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		logrus.Info("Default admin user created")
	}

	if cfg.SeedDemoData {
		if err := seedDemoProducts(db); err != nil {
			return err
		}
	}

	return nil
}

func getSeedAdminPassword() string {
	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		return pw
	}
	return "admin"
}

func seedCatalogs(db *gorm.DB) error {
	var categoryCount int64
	db.Model(&models.Category{}).Count(&categoryCount)
	if categoryCount > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Modem", Description: "Internet modems"},
		{Name: "Router", Description: "Network routers"},
		{Name: "Smartphone", Description: "Mobile phones"},
		{Name: "Tablet", Description: "Tablet computers"},
		{Name: "Accessory", Description: "Device accessories"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	statusTypes := []models.StatusType{
		{Name: "Active", Description: "Product is active and available"},
		{Name: "In Development", Description: "Product is in development phase"},
		{Name: "End of Life", Description: "Product is no longer supported"},
		{Name: "Deleted", Description: "Product is marked as deleted"},
	}
	if err := db.Create(&statusTypes).Error; err != nil {
		return fmt.Errorf("failed to seed status types: %w", err)
	}

	propertyTypes := []models.PropertyType{
		{Name: "Processor", Description: "CPU type and speed"},
		{Name: "RAM", Description: "Memory size"},
		{Name: "Storage", Description: "Storage capacity"},
		{Name: "Display", Description: "Screen size and resolution"},
		{Name: "Battery", Description: "Battery capacity"},
	}
	if err := db.Create(&propertyTypes).Error; err != nil {
		return fmt.Errorf("failed to seed property types: %w", err)
	}

	languages := []models.Language{
		{Code: "en", Name: "English"},
		{Code: "de", Name: "Deutsch"},
		{Code: "fr", Name: "Français"},
		{Code: "es", Name: "Español"},
		{Code: "it", Name: "Italiano"},
	}
	if err := db.Create(&languages).Error; err != nil {
		return fmt.Errorf("failed to seed languages: %w", err)
	}

	gram := "g"
	millimetre := "mm"
	packageOptions := "Retail,Bulk,OEM"
	barcodeOptions := "EAN-13,UPC,QR Code"
	fields := []models.PackagingLogisticsField{
		{Name: "Weight", Type: "number", Unit: &gram},
		{Name: "Dimensions", Type: "text", Unit: &millimetre},
		{Name: "Package Type", Type: "select", Options: &packageOptions},
		{Name: "Barcode Type", Type: "select", Options: &barcodeOptions},
	}
	if err := db.Create(&fields).Error; err != nil {
		return fmt.Errorf("failed to seed packaging logistics fields: %w", err)
	}

	return nil
}

func seedDemoProducts(db *gorm.DB) error {
	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount > 0 {
		return nil
	}

	one := uint(1)
	two := uint(2)
	three := uint(3)
	four := uint(4)
	products := []models.Product{
		{Model: "Smartphone X1", SKU: "SP-X1-001", EAN: "1234567890123", CategoryID: &three, StatusID: &one},
		{Model: "Router R5", SKU: "RT-R5-002", EAN: "2345678901234", CategoryID: &two, StatusID: &one},
		{Model: "Tablet T3", SKU: "TB-T3-003", EAN: "3456789012345", CategoryID: &four, StatusID: &two},
	}
	if err := db.Create(&products).Error; err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	contents := []models.PackageContent{
		{ProductID: products[0].ID, Item: "Main Device", Quantity: 1},
		{ProductID: products[0].ID, Item: "Power Adapter", Quantity: 1},
		{ProductID: products[0].ID, Item: "User Manual", Quantity: 1},
		{ProductID: products[0].ID, Item: "USB Cable", Quantity: 1},
	}
	if err := db.Create(&contents).Error; err != nil {
		return fmt.Errorf("failed to seed package contents: %w", err)
	}

	properties := []models.Property{
		{ProductID: products[0].ID, PropertyTypeID: &one, Name: "Processor", Value: "Quad-core 2.0 GHz"},
		{ProductID: products[0].ID, PropertyTypeID: &two, Name: "RAM", Value: "4 GB"},
		{ProductID: products[0].ID, PropertyTypeID: &three, Name: "Storage", Value: "64 GB"},
	}
	if err := db.Create(&properties).Error; err != nil {
		return fmt.Errorf("failed to seed properties: %w", err)
	}

	return nil
}

// WithTransaction wraps multi-statement writes so a failure after the first
// statement never leaves a partial write visible.
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

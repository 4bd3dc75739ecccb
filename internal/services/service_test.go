// internal/services/service_test.go
package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pimstack/pim-backend/internal/database"
	"github.com/pimstack/pim-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func newTestProductService(db *gorm.DB) (*ProductService, *CompletionService) {
	completion := NewCompletionService(db)
	return NewProductService(db, completion, DefaultQueryTimeout), completion
}

func newTestChildService(db *gorm.DB) *ChildService {
	return NewChildService(db, NewCompletionService(db), DefaultQueryTimeout)
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	row := &models.Category{Name: name}
	require.NoError(t, db.Create(row).Error)
	return row
}

func createStatusType(t *testing.T, db *gorm.DB, name string) *models.StatusType {
	t.Helper()
	row := &models.StatusType{Name: name}
	require.NoError(t, db.Create(row).Error)
	return row
}

func createLanguage(t *testing.T, db *gorm.DB, code, name string) *models.Language {
	t.Helper()
	row := &models.Language{Code: code, Name: name}
	require.NoError(t, db.Create(row).Error)
	return row
}

func createPackagingField(t *testing.T, db *gorm.DB, name, fieldType string) *models.PackagingLogisticsField {
	t.Helper()
	row := &models.PackagingLogisticsField{Name: name, Type: fieldType}
	require.NoError(t, db.Create(row).Error)
	return row
}

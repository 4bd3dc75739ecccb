// internal/services/catalog_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/apperrors"
	"github.com/pimstack/pim-backend/internal/models"
	"github.com/pimstack/pim-backend/internal/utils"
)

// CatalogService manages the shared lookup entities: categories, status
// types, property types, languages and packaging logistics fields.
// Referential cleanup on delete is handled by the schema's foreign key
// policies, not here.
type CatalogService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewCatalogService(db *gorm.DB, timeout time.Duration) *CatalogService {
	return &CatalogService{db: db, timeout: timeout}
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type StatusTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type PropertyTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type LanguageRequest struct {
	Code string `json:"code" validate:"required,max=10"`
	Name string `json:"name" validate:"required"`
}

type PackagingFieldRequest struct {
	Name    string  `json:"name" validate:"required"`
	Type    string  `json:"type" validate:"required"`
	Unit    *string `json:"unit"`
	Options *string `json:"options"`
}

// Categories

func (s *CatalogService) ListCategories() ([]models.Category, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var rows []models.Category
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storeError(err, "failed to list categories")
	}
	return rows, nil
}

func (s *CatalogService) GetCategory(id uint) (*models.Category, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.Category
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Category")
	}
	return &row, nil
}

func (s *CatalogService) CreateCategory(req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	row := &models.Category{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create category")
	}
	return row, nil
}

func (s *CatalogService) UpdateCategory(id uint, req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.Category
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Category")
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Description = req.Description
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update category")
	}
	return &row, nil
}

func (s *CatalogService) DeleteCategory(id uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()
	return s.deleteByID(db, &models.Category{}, id, "Category")
}

// Status types

func (s *CatalogService) ListStatusTypes() ([]models.StatusType, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var rows []models.StatusType
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storeError(err, "failed to list status types")
	}
	return rows, nil
}

func (s *CatalogService) GetStatusType(id uint) (*models.StatusType, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.StatusType
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Status type")
	}
	return &row, nil
}

func (s *CatalogService) CreateStatusType(req *StatusTypeRequest) (*models.StatusType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	row := &models.StatusType{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create status type")
	}
	return row, nil
}

func (s *CatalogService) UpdateStatusType(id uint, req *StatusTypeRequest) (*models.StatusType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.StatusType
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Status type")
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Description = req.Description
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update status type")
	}
	return &row, nil
}

func (s *CatalogService) DeleteStatusType(id uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()
	return s.deleteByID(db, &models.StatusType{}, id, "Status type")
}

// Property types

func (s *CatalogService) ListPropertyTypes() ([]models.PropertyType, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var rows []models.PropertyType
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storeError(err, "failed to list property types")
	}
	return rows, nil
}

func (s *CatalogService) GetPropertyType(id uint) (*models.PropertyType, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.PropertyType
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Property type")
	}
	return &row, nil
}

func (s *CatalogService) CreatePropertyType(req *PropertyTypeRequest) (*models.PropertyType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	row := &models.PropertyType{Name: strings.TrimSpace(req.Name), Description: req.Description}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create property type")
	}
	return row, nil
}

func (s *CatalogService) UpdatePropertyType(id uint, req *PropertyTypeRequest) (*models.PropertyType, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.PropertyType
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Property type")
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Description = req.Description
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update property type")
	}
	return &row, nil
}

func (s *CatalogService) DeletePropertyType(id uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()
	return s.deleteByID(db, &models.PropertyType{}, id, "Property type")
}

// Languages

func (s *CatalogService) ListLanguages() ([]models.Language, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var rows []models.Language
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storeError(err, "failed to list languages")
	}
	return rows, nil
}

func (s *CatalogService) GetLanguage(id uint) (*models.Language, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.Language
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Language")
	}
	return &row, nil
}

func (s *CatalogService) CreateLanguage(req *LanguageRequest) (*models.Language, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	code := strings.ToLower(strings.TrimSpace(req.Code))
	if err := s.checkLanguageCode(db, code, 0); err != nil {
		return nil, err
	}

	row := &models.Language{Code: code, Name: strings.TrimSpace(req.Name)}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create language")
	}
	return row, nil
}

func (s *CatalogService) UpdateLanguage(id uint, req *LanguageRequest) (*models.Language, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.Language
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Language")
	}

	code := strings.ToLower(strings.TrimSpace(req.Code))
	if err := s.checkLanguageCode(db, code, id); err != nil {
		return nil, err
	}

	row.Code = code
	row.Name = strings.TrimSpace(req.Name)
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update language")
	}
	return &row, nil
}

func (s *CatalogService) DeleteLanguage(id uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()
	return s.deleteByID(db, &models.Language{}, id, "Language")
}

// Packaging logistics fields

func (s *CatalogService) ListPackagingFields() ([]models.PackagingLogisticsField, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var rows []models.PackagingLogisticsField
	if err := db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, storeError(err, "failed to list packaging logistics fields")
	}
	return rows, nil
}

func (s *CatalogService) GetPackagingField(id uint) (*models.PackagingLogisticsField, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.PackagingLogisticsField
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Packaging logistics field")
	}
	return &row, nil
}

func (s *CatalogService) CreatePackagingField(req *PackagingFieldRequest) (*models.PackagingLogisticsField, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	row := &models.PackagingLogisticsField{
		Name:    strings.TrimSpace(req.Name),
		Type:    strings.TrimSpace(req.Type),
		Unit:    req.Unit,
		Options: req.Options,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create packaging logistics field")
	}
	return row, nil
}

func (s *CatalogService) UpdatePackagingField(id uint, req *PackagingFieldRequest) (*models.PackagingLogisticsField, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var row models.PackagingLogisticsField
	if err := db.First(&row, id).Error; err != nil {
		return nil, catalogFetchError(err, "Packaging logistics field")
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Type = strings.TrimSpace(req.Type)
	row.Unit = req.Unit
	row.Options = req.Options
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update packaging logistics field")
	}
	return &row, nil
}

func (s *CatalogService) DeletePackagingField(id uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()
	return s.deleteByID(db, &models.PackagingLogisticsField{}, id, "Packaging logistics field")
}

func (s *CatalogService) deleteByID(db *gorm.DB, model interface{}, id uint, resource string) error {
	result := db.Where("id = ?", id).Delete(model)
	if result.Error != nil {
		return storeError(result.Error, "failed to delete "+resource)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}

func (s *CatalogService) checkLanguageCode(db *gorm.DB, code string, excludeID uint) error {
	var count int64
	query := db.Model(&models.Language{}).Where("code = ?", code)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return storeError(err, "failed to check language code")
	}
	if count > 0 {
		return apperrors.Conflict("language code already exists")
	}
	return nil
}

func catalogFetchError(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(resource)
	}
	return storeError(err, "failed to fetch "+resource)
}

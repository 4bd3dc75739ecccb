// internal/services/children_service.go
package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/apperrors"
	"github.com/pimstack/pim-backend/internal/models"
	"github.com/pimstack/pim-backend/internal/utils"
)

// ChildService implements CRUD over the 13 product-owned child collections.
// Every operation verifies the parent product first, and every mutation
// refreshes the parent's completion cache before returning.
type ChildService struct {
	db         *gorm.DB
	completion *CompletionService
	timeout    time.Duration
}

func NewChildService(db *gorm.DB, completion *CompletionService, timeout time.Duration) *ChildService {
	return &ChildService{
		db:         db,
		completion: completion,
		timeout:    timeout,
	}
}

// Request DTOs, one per kind.

type PackageContentRequest struct {
	Item     string `json:"item" validate:"required"`
	Quantity *int   `json:"quantity" validate:"omitempty,min=1"`
}

type PropertyRequest struct {
	Name           string `json:"name" validate:"required"`
	Value          string `json:"value"`
	PropertyTypeID *uint  `json:"property_type_id"`
}

type ProductLanguageRequest struct {
	LanguageID  uint   `json:"language_id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type StatusHistoryRequest struct {
	StatusID uint   `json:"status_id" validate:"required"`
	Notes    string `json:"notes"`
	UserID   *uint  `json:"user_id"`
}

type PackagingLogisticsRequest struct {
	FieldID uint   `json:"field_id" validate:"required"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

type AddressRequest struct {
	Type    string `json:"type" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type SerialNumberRequest struct {
	SerialNumber   string     `json:"serial_number" validate:"required"`
	ProductionDate *time.Time `json:"production_date"`
	Notes          string     `json:"notes"`
}

type ImeiMacRequest struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required"`
	Notes string `json:"notes"`
}

type SoftwareRequest struct {
	Name        string     `json:"name" validate:"required"`
	Version     string     `json:"version" validate:"required"`
	ReleaseDate *time.Time `json:"release_date"`
	Notes       string     `json:"notes"`
}

type UserManualRequest struct {
	LanguageID uint   `json:"language_id" validate:"required"`
	Title      string `json:"title" validate:"required"`
	FilePath   string `json:"file_path"`
	Version    string `json:"version"`
}

type CategoryLinkRequest struct {
	CategoryID uint `json:"category_id" validate:"required"`
}

type CompatibleLinkRequest struct {
	CompatibleID uint `json:"compatible_id" validate:"required"`
}

type AccessoryLinkRequest struct {
	AccessoryID uint `json:"accessory_id" validate:"required"`
}

// List returns every row of the kind for the product. Joined catalog fields
// are resolved here so clients never need a second request.
func (s *ChildService) List(productID uint, kind models.ChildKind) (interface{}, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if err := s.ensureProduct(db, productID); err != nil {
		return nil, err
	}

	switch kind {
	case models.KindPackageContents:
		var rows []models.PackageContent
		err := db.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
		return rows, listError(err)

	case models.KindProperties:
		var rows []models.Property
		err := db.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
		return rows, listError(err)

	case models.KindLanguages:
		var rows []models.ProductLanguage
		err := db.Model(&models.ProductLanguage{}).
			Select("product_languages.*, languages.code AS code, languages.name AS language_name").
			Joins("JOIN languages ON languages.id = product_languages.language_id").
			Where("product_languages.product_id = ?", productID).
			Order("product_languages.id ASC").
			Scan(&rows).Error
		return rows, listError(err)

	case models.KindStatusHistory:
		var rows []models.StatusHistoryEntry
		err := db.Model(&models.StatusHistoryEntry{}).
			Select("status_history.*, status_types.name AS status_name").
			Joins("JOIN status_types ON status_types.id = status_history.status_id").
			Where("status_history.product_id = ?", productID).
			Order("status_history.date DESC").
			Scan(&rows).Error
		return rows, listError(err)

	case models.KindPackagingLogistics:
		var rows []models.PackagingLogisticsValue
		err := db.Model(&models.PackagingLogisticsValue{}).
			Select("packaging_logistics_values.*, packaging_logistics_fields.name AS field_name, packaging_logistics_fields.type AS field_type, packaging_logistics_fields.unit AS unit").
			Joins("JOIN packaging_logistics_fields ON packaging_logistics_fields.id = packaging_logistics_values.field_id").
			Where("packaging_logistics_values.product_id = ?", productID).
			Order("packaging_logistics_values.id ASC").
			Scan(&rows).Error
		return rows, listError(err)

	case models.KindAddresses:
		var rows []models.Address
		err := db.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
		return rows, listError(err)

	case models.KindCategories:
		var rows []models.Category
		err := db.Model(&models.Category{}).
			Joins("JOIN product_categories ON product_categories.category_id = categories.id").
			Where("product_categories.product_id = ?", productID).
			Order("categories.id ASC").
			Scan(&rows).Error
		return rows, listError(err)

	case models.KindCompatible:
		var rows []models.ProductRef
		err := db.Model(&models.Product{}).
			Select("products.id, products.model, products.sku").
			Joins("JOIN compatible_products ON compatible_products.compatible_id = products.id").
			Where("compatible_products.product_id = ?", productID).
			Order("products.id ASC").
			Scan(&rows).Error
		return rows, listError(err)

	case models.KindSerialNumbers:
		var rows []models.SerialNumber
		err := db.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
		return rows, listError(err)

	case models.KindImeiMac:
		var rows []models.ImeiMac
		err := db.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
		return rows, listError(err)

	case models.KindSoftware:
		var rows []models.Software
		err := db.Where("product_id = ?", productID).Order("id ASC").Find(&rows).Error
		return rows, listError(err)

	case models.KindManuals:
		var rows []models.UserManual
		err := db.Model(&models.UserManual{}).
			Select("user_manuals.*, languages.code AS code, languages.name AS language_name").
			Joins("JOIN languages ON languages.id = user_manuals.language_id").
			Where("user_manuals.product_id = ?", productID).
			Order("user_manuals.id ASC").
			Scan(&rows).Error
		return rows, listError(err)

	case models.KindAccessories:
		var rows []models.ProductRef
		err := db.Model(&models.Product{}).
			Select("products.id, products.model, products.sku").
			Joins("JOIN accessories ON accessories.accessory_id = products.id").
			Where("accessories.product_id = ?", productID).
			Order("products.id ASC").
			Scan(&rows).Error
		return rows, listError(err)
	}

	return nil, apperrors.Validation("unknown child collection: %s", kind)
}

// Create decodes the kind-specific payload, inserts the row and refreshes
// the completion cache.
func (s *ChildService) Create(productID uint, kind models.ChildKind, raw json.RawMessage) (interface{}, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if err := s.ensureProduct(db, productID); err != nil {
		return nil, err
	}

	var created interface{}
	var err error

	switch kind {
	case models.KindPackageContents:
		created, err = s.createPackageContent(db, productID, raw)
	case models.KindProperties:
		created, err = s.createProperty(db, productID, raw)
	case models.KindLanguages:
		created, err = s.createProductLanguage(db, productID, raw)
	case models.KindStatusHistory:
		created, err = s.createStatusHistory(db, productID, raw)
	case models.KindPackagingLogistics:
		created, err = s.createPackagingLogistics(db, productID, raw)
	case models.KindAddresses:
		created, err = s.createAddress(db, productID, raw)
	case models.KindCategories:
		created, err = s.createCategoryLink(db, productID, raw)
	case models.KindCompatible:
		created, err = s.createCompatibleLink(db, productID, raw)
	case models.KindSerialNumbers:
		created, err = s.createSerialNumber(db, productID, raw)
	case models.KindImeiMac:
		created, err = s.createImeiMac(db, productID, raw)
	case models.KindSoftware:
		created, err = s.createSoftware(db, productID, raw)
	case models.KindManuals:
		created, err = s.createUserManual(db, productID, raw)
	case models.KindAccessories:
		created, err = s.createAccessoryLink(db, productID, raw)
	default:
		return nil, apperrors.Validation("unknown child collection: %s", kind)
	}

	if err != nil {
		return nil, err
	}

	if err := s.refreshCompletion(db, productID); err != nil {
		return nil, err
	}

	return created, nil
}

// GetItem fetches one row, scoped to the owning product: a row id that
// belongs to a different product is not found.
func (s *ChildService) GetItem(productID uint, kind models.ChildKind, childID uint) (interface{}, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if err := s.ensureProduct(db, productID); err != nil {
		return nil, err
	}

	switch kind {
	case models.KindPackageContents:
		var row models.PackageContent
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Package content")
	case models.KindProperties:
		var row models.Property
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Property")
	case models.KindLanguages:
		var row models.ProductLanguage
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Language entry")
	case models.KindStatusHistory:
		var row models.StatusHistoryEntry
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Status history entry")
	case models.KindPackagingLogistics:
		var row models.PackagingLogisticsValue
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Packaging logistics value")
	case models.KindAddresses:
		var row models.Address
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Address")
	case models.KindCategories:
		var row models.Category
		err := db.Model(&models.Category{}).
			Joins("JOIN product_categories ON product_categories.category_id = categories.id").
			Where("product_categories.product_id = ? AND categories.id = ?", productID, childID).
			First(&row).Error
		return itemResult(&row, err, "Category link")
	case models.KindCompatible:
		return s.linkedProductRef(db, "compatible_products", "compatible_id", productID, childID, "Compatible product link")
	case models.KindSerialNumbers:
		var row models.SerialNumber
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Serial number")
	case models.KindImeiMac:
		var row models.ImeiMac
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "IMEI/MAC entry")
	case models.KindSoftware:
		var row models.Software
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "Software entry")
	case models.KindManuals:
		var row models.UserManual
		return itemResult(&row, db.Where("id = ? AND product_id = ?", childID, productID).First(&row).Error, "User manual")
	case models.KindAccessories:
		return s.linkedProductRef(db, "accessories", "accessory_id", productID, childID, "Accessory link")
	}

	return nil, apperrors.Validation("unknown child collection: %s", kind)
}

// Update edits one row in place. Link kinds and the append-only status
// history reject updates.
func (s *ChildService) Update(productID uint, kind models.ChildKind, childID uint, raw json.RawMessage) (interface{}, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if err := s.ensureProduct(db, productID); err != nil {
		return nil, err
	}

	var updated interface{}
	var err error

	switch kind {
	case models.KindPackageContents:
		updated, err = s.updatePackageContent(db, productID, childID, raw)
	case models.KindProperties:
		updated, err = s.updateProperty(db, productID, childID, raw)
	case models.KindLanguages:
		updated, err = s.updateProductLanguage(db, productID, childID, raw)
	case models.KindStatusHistory:
		return nil, apperrors.MethodNotAllowed("status history is append-only")
	case models.KindPackagingLogistics:
		updated, err = s.updatePackagingLogistics(db, productID, childID, raw)
	case models.KindAddresses:
		updated, err = s.updateAddress(db, productID, childID, raw)
	case models.KindCategories, models.KindCompatible, models.KindAccessories:
		return nil, apperrors.MethodNotAllowed("links cannot be updated, delete and recreate instead")
	case models.KindSerialNumbers:
		updated, err = s.updateSerialNumber(db, productID, childID, raw)
	case models.KindImeiMac:
		updated, err = s.updateImeiMac(db, productID, childID, raw)
	case models.KindSoftware:
		updated, err = s.updateSoftware(db, productID, childID, raw)
	case models.KindManuals:
		updated, err = s.updateUserManual(db, productID, childID, raw)
	default:
		return nil, apperrors.Validation("unknown child collection: %s", kind)
	}

	if err != nil {
		return nil, err
	}

	if err := s.refreshCompletion(db, productID); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes one row (or link) and refreshes the completion cache.
func (s *ChildService) Delete(productID uint, kind models.ChildKind, childID uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if err := s.ensureProduct(db, productID); err != nil {
		return err
	}

	var err error
	switch kind {
	case models.KindPackageContents:
		err = s.deleteRow(db, &models.PackageContent{}, productID, childID, "Package content")
	case models.KindProperties:
		err = s.deleteRow(db, &models.Property{}, productID, childID, "Property")
	case models.KindLanguages:
		err = s.deleteRow(db, &models.ProductLanguage{}, productID, childID, "Language entry")
	case models.KindStatusHistory:
		err = s.deleteRow(db, &models.StatusHistoryEntry{}, productID, childID, "Status history entry")
	case models.KindPackagingLogistics:
		err = s.deleteRow(db, &models.PackagingLogisticsValue{}, productID, childID, "Packaging logistics value")
	case models.KindAddresses:
		err = s.deleteRow(db, &models.Address{}, productID, childID, "Address")
	case models.KindCategories:
		err = s.deleteLink(db, &models.ProductCategory{}, "category_id", productID, childID, "Category link")
	case models.KindCompatible:
		err = s.deleteLink(db, &models.CompatibleProduct{}, "compatible_id", productID, childID, "Compatible product link")
	case models.KindSerialNumbers:
		err = s.deleteRow(db, &models.SerialNumber{}, productID, childID, "Serial number")
	case models.KindImeiMac:
		err = s.deleteRow(db, &models.ImeiMac{}, productID, childID, "IMEI/MAC entry")
	case models.KindSoftware:
		err = s.deleteRow(db, &models.Software{}, productID, childID, "Software entry")
	case models.KindManuals:
		err = s.deleteRow(db, &models.UserManual{}, productID, childID, "User manual")
	case models.KindAccessories:
		err = s.deleteLink(db, &models.Accessory{}, "accessory_id", productID, childID, "Accessory link")
	default:
		return apperrors.Validation("unknown child collection: %s", kind)
	}

	if err != nil {
		return err
	}

	return s.refreshCompletion(db, productID)
}

// Per-kind create helpers.

func (s *ChildService) createPackageContent(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req PackageContentRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	row := &models.PackageContent{
		ProductID: productID,
		Item:      strings.TrimSpace(req.Item),
		Quantity:  quantity,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create package content")
	}
	return row, nil
}

func (s *ChildService) createProperty(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req PropertyRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	if req.PropertyTypeID != nil {
		if err := s.ensureExists(db, &models.PropertyType{}, *req.PropertyTypeID, "Property type"); err != nil {
			return nil, err
		}
	}

	row := &models.Property{
		ProductID:      productID,
		PropertyTypeID: req.PropertyTypeID,
		Name:           strings.TrimSpace(req.Name),
		Value:          req.Value,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create property")
	}
	return row, nil
}

func (s *ChildService) createProductLanguage(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req ProductLanguageRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	var language models.Language
	if err := db.First(&language, req.LanguageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Language")
		}
		return nil, storeError(err, "failed to fetch language")
	}

	row := &models.ProductLanguage{
		ProductID:   productID,
		LanguageID:  req.LanguageID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create language entry")
	}

	row.Code = language.Code
	row.LanguageName = language.Name
	return row, nil
}

func (s *ChildService) createStatusHistory(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req StatusHistoryRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	if err := s.ensureExists(db, &models.StatusType{}, req.StatusID, "Status type"); err != nil {
		return nil, err
	}

	row := &models.StatusHistoryEntry{
		ProductID: productID,
		StatusID:  req.StatusID,
		UserID:    req.UserID,
		Notes:     req.Notes,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to append status history")
	}
	return row, nil
}

func (s *ChildService) createPackagingLogistics(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req PackagingLogisticsRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	var field models.PackagingLogisticsField
	if err := db.First(&field, req.FieldID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Packaging logistics field")
		}
		return nil, storeError(err, "failed to fetch packaging logistics field")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = field.Name
	}

	row := &models.PackagingLogisticsValue{
		ProductID: productID,
		FieldID:   req.FieldID,
		Name:      name,
		Value:     req.Value,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create packaging logistics value")
	}

	row.FieldName = field.Name
	row.FieldType = field.Type
	row.Unit = field.Unit
	return row, nil
}

func (s *ChildService) createAddress(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req AddressRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row := &models.Address{
		ProductID: productID,
		Type:      strings.TrimSpace(req.Type),
		Name:      strings.TrimSpace(req.Name),
		Street:    req.Street,
		City:      req.City,
		Zip:       req.Zip,
		Country:   req.Country,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create address")
	}
	return row, nil
}

func (s *ChildService) createCategoryLink(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req CategoryLinkRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	if err := s.ensureExists(db, &models.Category{}, req.CategoryID, "Category"); err != nil {
		return nil, err
	}

	if err := s.ensureNoLink(db, &models.ProductCategory{}, "category_id", productID, req.CategoryID); err != nil {
		return nil, err
	}

	row := &models.ProductCategory{ProductID: productID, CategoryID: req.CategoryID}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to link category")
	}
	return row, nil
}

func (s *ChildService) createCompatibleLink(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req CompatibleLinkRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	if req.CompatibleID == productID {
		return nil, apperrors.Validation("a product cannot be compatible with itself")
	}

	if err := s.ensureExists(db, &models.Product{}, req.CompatibleID, "Product"); err != nil {
		return nil, err
	}

	if err := s.ensureNoLink(db, &models.CompatibleProduct{}, "compatible_id", productID, req.CompatibleID); err != nil {
		return nil, err
	}

	row := &models.CompatibleProduct{ProductID: productID, CompatibleID: req.CompatibleID}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to link compatible product")
	}
	return row, nil
}

func (s *ChildService) createSerialNumber(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req SerialNumberRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row := &models.SerialNumber{
		ProductID:      productID,
		SerialNumber:   strings.TrimSpace(req.SerialNumber),
		ProductionDate: req.ProductionDate,
		Notes:          req.Notes,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create serial number")
	}
	return row, nil
}

func (s *ChildService) createImeiMac(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req ImeiMacRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row := &models.ImeiMac{
		ProductID: productID,
		Type:      strings.TrimSpace(req.Type),
		Value:     strings.TrimSpace(req.Value),
		Notes:     req.Notes,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create IMEI/MAC entry")
	}
	return row, nil
}

func (s *ChildService) createSoftware(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req SoftwareRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row := &models.Software{
		ProductID:   productID,
		Name:        strings.TrimSpace(req.Name),
		Version:     strings.TrimSpace(req.Version),
		ReleaseDate: req.ReleaseDate,
		Notes:       req.Notes,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create software entry")
	}
	return row, nil
}

func (s *ChildService) createUserManual(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req UserManualRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	var language models.Language
	if err := db.First(&language, req.LanguageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Language")
		}
		return nil, storeError(err, "failed to fetch language")
	}

	row := &models.UserManual{
		ProductID:  productID,
		LanguageID: req.LanguageID,
		Title:      strings.TrimSpace(req.Title),
		FilePath:   req.FilePath,
		Version:    req.Version,
	}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to create user manual")
	}

	row.Code = language.Code
	row.LanguageName = language.Name
	return row, nil
}

func (s *ChildService) createAccessoryLink(db *gorm.DB, productID uint, raw json.RawMessage) (interface{}, error) {
	var req AccessoryLinkRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	if req.AccessoryID == productID {
		return nil, apperrors.Validation("a product cannot be its own accessory")
	}

	if err := s.ensureExists(db, &models.Product{}, req.AccessoryID, "Product"); err != nil {
		return nil, err
	}

	if err := s.ensureNoLink(db, &models.Accessory{}, "accessory_id", productID, req.AccessoryID); err != nil {
		return nil, err
	}

	row := &models.Accessory{ProductID: productID, AccessoryID: req.AccessoryID}
	if err := db.Create(row).Error; err != nil {
		return nil, storeError(err, "failed to link accessory")
	}
	return row, nil
}

// Per-kind update helpers.

func (s *ChildService) updatePackageContent(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.PackageContent
	if err := s.findRow(db, &row, productID, childID, "Package content"); err != nil {
		return nil, err
	}

	var req PackageContentRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row.Item = strings.TrimSpace(req.Item)
	if req.Quantity != nil {
		row.Quantity = *req.Quantity
	}
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update package content")
	}
	return &row, nil
}

func (s *ChildService) updateProperty(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.Property
	if err := s.findRow(db, &row, productID, childID, "Property"); err != nil {
		return nil, err
	}

	var req PropertyRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	if req.PropertyTypeID != nil {
		if err := s.ensureExists(db, &models.PropertyType{}, *req.PropertyTypeID, "Property type"); err != nil {
			return nil, err
		}
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Value = req.Value
	row.PropertyTypeID = req.PropertyTypeID
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update property")
	}
	return &row, nil
}

func (s *ChildService) updateProductLanguage(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.ProductLanguage
	if err := s.findRow(db, &row, productID, childID, "Language entry"); err != nil {
		return nil, err
	}

	var req ProductLanguageRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	var language models.Language
	if err := db.First(&language, req.LanguageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Language")
		}
		return nil, storeError(err, "failed to fetch language")
	}

	row.LanguageID = req.LanguageID
	row.Name = strings.TrimSpace(req.Name)
	row.Description = req.Description
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update language entry")
	}

	row.Code = language.Code
	row.LanguageName = language.Name
	return &row, nil
}

func (s *ChildService) updatePackagingLogistics(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.PackagingLogisticsValue
	if err := s.findRow(db, &row, productID, childID, "Packaging logistics value"); err != nil {
		return nil, err
	}

	var req PackagingLogisticsRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	var field models.PackagingLogisticsField
	if err := db.First(&field, req.FieldID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Packaging logistics field")
		}
		return nil, storeError(err, "failed to fetch packaging logistics field")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = field.Name
	}

	row.FieldID = req.FieldID
	row.Name = name
	row.Value = req.Value
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update packaging logistics value")
	}

	row.FieldName = field.Name
	row.FieldType = field.Type
	row.Unit = field.Unit
	return &row, nil
}

func (s *ChildService) updateAddress(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.Address
	if err := s.findRow(db, &row, productID, childID, "Address"); err != nil {
		return nil, err
	}

	var req AddressRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row.Type = strings.TrimSpace(req.Type)
	row.Name = strings.TrimSpace(req.Name)
	row.Street = req.Street
	row.City = req.City
	row.Zip = req.Zip
	row.Country = req.Country
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update address")
	}
	return &row, nil
}

func (s *ChildService) updateSerialNumber(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.SerialNumber
	if err := s.findRow(db, &row, productID, childID, "Serial number"); err != nil {
		return nil, err
	}

	var req SerialNumberRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row.SerialNumber = strings.TrimSpace(req.SerialNumber)
	row.ProductionDate = req.ProductionDate
	row.Notes = req.Notes
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update serial number")
	}
	return &row, nil
}

func (s *ChildService) updateImeiMac(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.ImeiMac
	if err := s.findRow(db, &row, productID, childID, "IMEI/MAC entry"); err != nil {
		return nil, err
	}

	var req ImeiMacRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row.Type = strings.TrimSpace(req.Type)
	row.Value = strings.TrimSpace(req.Value)
	row.Notes = req.Notes
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update IMEI/MAC entry")
	}
	return &row, nil
}

func (s *ChildService) updateSoftware(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.Software
	if err := s.findRow(db, &row, productID, childID, "Software entry"); err != nil {
		return nil, err
	}

	var req SoftwareRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	row.Name = strings.TrimSpace(req.Name)
	row.Version = strings.TrimSpace(req.Version)
	row.ReleaseDate = req.ReleaseDate
	row.Notes = req.Notes
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update software entry")
	}
	return &row, nil
}

func (s *ChildService) updateUserManual(db *gorm.DB, productID, childID uint, raw json.RawMessage) (interface{}, error) {
	var row models.UserManual
	if err := s.findRow(db, &row, productID, childID, "User manual"); err != nil {
		return nil, err
	}

	var req UserManualRequest
	if err := decodeRequest(raw, &req); err != nil {
		return nil, err
	}

	var language models.Language
	if err := db.First(&language, req.LanguageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Language")
		}
		return nil, storeError(err, "failed to fetch language")
	}

	row.LanguageID = req.LanguageID
	row.Title = strings.TrimSpace(req.Title)
	row.FilePath = req.FilePath
	row.Version = req.Version
	if err := db.Save(&row).Error; err != nil {
		return nil, storeError(err, "failed to update user manual")
	}

	row.Code = language.Code
	row.LanguageName = language.Name
	return &row, nil
}

// Shared plumbing.

func (s *ChildService) ensureProduct(db *gorm.DB, productID uint) error {
	var count int64
	if err := db.Model(&models.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return storeError(err, "failed to check product")
	}
	if count == 0 {
		return apperrors.NotFound("Product")
	}
	return nil
}

func (s *ChildService) ensureExists(db *gorm.DB, model interface{}, id uint, resource string) error {
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return storeError(err, "failed to check "+resource)
	}
	if count == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}

func (s *ChildService) ensureNoLink(db *gorm.DB, model interface{}, column string, productID, targetID uint) error {
	var count int64
	if err := db.Model(model).
		Where("product_id = ? AND "+column+" = ?", productID, targetID).
		Count(&count).Error; err != nil {
		return storeError(err, "failed to check link")
	}
	if count > 0 {
		return apperrors.Conflict("link already exists")
	}
	return nil
}

func (s *ChildService) findRow(db *gorm.DB, dst interface{}, productID, childID uint, resource string) error {
	if err := db.Where("id = ? AND product_id = ?", childID, productID).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound(resource)
		}
		return storeError(err, "failed to fetch "+resource)
	}
	return nil
}

func (s *ChildService) deleteRow(db *gorm.DB, model interface{}, productID, childID uint, resource string) error {
	result := db.Where("id = ? AND product_id = ?", childID, productID).Delete(model)
	if result.Error != nil {
		return storeError(result.Error, "failed to delete "+resource)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}

func (s *ChildService) deleteLink(db *gorm.DB, model interface{}, column string, productID, targetID uint, resource string) error {
	result := db.Where("product_id = ? AND "+column+" = ?", productID, targetID).Delete(model)
	if result.Error != nil {
		return storeError(result.Error, "failed to delete "+resource)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}

func (s *ChildService) linkedProductRef(db *gorm.DB, table, column string, productID, childID uint, resource string) (interface{}, error) {
	var row models.ProductRef
	err := db.Model(&models.Product{}).
		Select("products.id, products.model, products.sku").
		Joins("JOIN "+table+" ON "+table+"."+column+" = products.id").
		Where(table+".product_id = ? AND products.id = ?", productID, childID).
		First(&row).Error
	return itemResult(&row, err, resource)
}

func (s *ChildService) refreshCompletion(db *gorm.DB, productID uint) error {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		return storeError(err, "failed to reload product")
	}
	_, err := s.completion.Calculate(db, &product)
	return err
}

func decodeRequest(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return apperrors.Validation("request body is required")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.Validation("malformed JSON body")
	}
	if err := utils.ValidateStruct(dst); err != nil {
		return apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}
	return nil
}

func listError(err error) error {
	if err != nil {
		return storeError(err, "failed to list child collection")
	}
	return nil
}

func itemResult(row interface{}, err error, resource string) (interface{}, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(resource)
		}
		return nil, storeError(err, "failed to fetch "+resource)
	}
	return row, nil
}

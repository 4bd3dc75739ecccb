// internal/services/completion_service.go
package services

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/models"
)

// BaseFieldChecks counts the scalar product fields that participate in the
// completion score: model, sku, ean, category reference, status reference.
const BaseFieldChecks = 5

// TotalChecks is the fixed denominator of the score. It never depends on
// how many rows a child collection holds.
var TotalChecks = BaseFieldChecks + len(models.ChildKinds)

// CompletionService derives the 0-100 completion score for a product. The
// score is a pure function of current row state: one check per base field,
// one check per child-collection kind with at least one row.
type CompletionService struct {
	db *gorm.DB
}

func NewCompletionService(db *gorm.DB) *CompletionService {
	return &CompletionService{db: db}
}

// Calculate computes the score against the given session (so callers inside
// a transaction see their own writes) and refreshes the cache column as a
// side effect. The cache is never read back.
func (s *CompletionService) Calculate(tx *gorm.DB, product *models.Product) (int, error) {
	filled := countFilledBaseFields(product)

	for _, kind := range models.ChildKinds {
		count, err := s.kindRowCount(tx, product.ID, kind)
		if err != nil {
			return 0, storeError(err, "failed to count child rows")
		}
		if count > 0 {
			filled++
		}
	}

	score := int(math.Round(float64(filled) / float64(TotalChecks) * 100))

	// Cache write only; UpdateColumn keeps updated_at untouched.
	if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
		UpdateColumn("completion_percentage", score).Error; err != nil {
		return 0, storeError(err, "failed to cache completion score")
	}

	return score, nil
}

// Attach recomputes the score and stores it on the derived field of every
// given product.
func (s *CompletionService) Attach(tx *gorm.DB, products ...*models.Product) error {
	for _, product := range products {
		score, err := s.Calculate(tx, product)
		if err != nil {
			return err
		}
		product.Completion = score
	}
	return nil
}

func countFilledBaseFields(product *models.Product) int {
	filled := 0
	if strings.TrimSpace(product.Model) != "" {
		filled++
	}
	if strings.TrimSpace(product.SKU) != "" {
		filled++
	}
	if strings.TrimSpace(product.EAN) != "" {
		filled++
	}
	if product.CategoryID != nil {
		filled++
	}
	if product.StatusID != nil {
		filled++
	}
	return filled
}

func (s *CompletionService) kindRowCount(tx *gorm.DB, productID uint, kind models.ChildKind) (int64, error) {
	var count int64
	var err error

	switch kind {
	case models.KindPackageContents:
		err = tx.Model(&models.PackageContent{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindProperties:
		err = tx.Model(&models.Property{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindLanguages:
		err = tx.Model(&models.ProductLanguage{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindStatusHistory:
		err = tx.Model(&models.StatusHistoryEntry{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindPackagingLogistics:
		err = tx.Model(&models.PackagingLogisticsValue{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindAddresses:
		err = tx.Model(&models.Address{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindCategories:
		err = tx.Model(&models.ProductCategory{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindCompatible:
		err = tx.Model(&models.CompatibleProduct{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindSerialNumbers:
		err = tx.Model(&models.SerialNumber{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindImeiMac:
		err = tx.Model(&models.ImeiMac{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindSoftware:
		err = tx.Model(&models.Software{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindManuals:
		err = tx.Model(&models.UserManual{}).Where("product_id = ?", productID).Count(&count).Error
	case models.KindAccessories:
		err = tx.Model(&models.Accessory{}).Where("product_id = ?", productID).Count(&count).Error
	}

	return count, err
}

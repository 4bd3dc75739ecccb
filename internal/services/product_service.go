// internal/services/product_service.go
package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/apperrors"
	"github.com/pimstack/pim-backend/internal/database"
	"github.com/pimstack/pim-backend/internal/models"
	"github.com/pimstack/pim-backend/internal/utils"
)

type ProductService struct {
	db         *gorm.DB
	completion *CompletionService
	timeout    time.Duration
}

type ProductRequest struct {
	Model      string `json:"model" validate:"required"`
	SKU        string `json:"sku" validate:"required"`
	EAN        string `json:"ean"`
	CategoryID *uint  `json:"category_id"`
	StatusID   *uint  `json:"status_id"`
}

func NewProductService(db *gorm.DB, completion *CompletionService, timeout time.Duration) *ProductService {
	return &ProductService{
		db:         db,
		completion: completion,
		timeout:    timeout,
	}
}

// CreateProduct inserts the product and, when a status is supplied, the
// initial status-history row in the same transaction so neither can exist
// without the other.
func (s *ProductService) CreateProduct(req *ProductRequest, userID *uint) (*models.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if err := s.checkSKUUnique(db, req.SKU, 0); err != nil {
		return nil, err
	}

	if err := s.checkCatalogRefs(db, req); err != nil {
		return nil, err
	}

	product := &models.Product{
		Model:      strings.TrimSpace(req.Model),
		SKU:        strings.TrimSpace(req.SKU),
		EAN:        strings.TrimSpace(req.EAN),
		CategoryID: req.CategoryID,
		StatusID:   req.StatusID,
	}

	err := database.WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return storeError(err, "failed to create product")
		}

		if product.StatusID != nil {
			history := &models.StatusHistoryEntry{
				ProductID: product.ID,
				StatusID:  *product.StatusID,
				UserID:    userID,
				Notes:     "Initial status",
			}
			if err := tx.Create(history).Error; err != nil {
				return storeError(err, "failed to record initial status")
			}
		}

		return s.completion.Attach(tx, product)
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	product, err := s.findProduct(db, id)
	if err != nil {
		return nil, err
	}

	if err := s.completion.Attach(db, product); err != nil {
		return nil, err
	}

	return product, nil
}

// ListProducts returns every product ordered by id ascending, each with a
// freshly computed completion score.
func (s *ProductService) ListProducts() ([]models.Product, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var products []models.Product
	if err := db.Order("id ASC").Find(&products).Error; err != nil {
		return nil, storeError(err, "failed to fetch products")
	}

	for i := range products {
		if err := s.completion.Attach(db, &products[i]); err != nil {
			return nil, err
		}
	}

	return products, nil
}

// SearchProducts filters by case-insensitive substring over model, sku and
// ean. The literal term "*" returns the unfiltered list in the same order.
func (s *ProductService) SearchProducts(term string) ([]models.Product, error) {
	if term == "*" {
		return s.ListProducts()
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	searchTerm := "%" + strings.ToLower(term) + "%"
	var products []models.Product
	if err := db.
		Where("LOWER(model) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(ean) LIKE ?", searchTerm, searchTerm, searchTerm).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, storeError(err, "failed to search products")
	}

	for i := range products {
		if err := s.completion.Attach(db, &products[i]); err != nil {
			return nil, err
		}
	}

	return products, nil
}

// UpdateProduct re-validates exactly as create does, with the uniqueness
// check excluding the row being updated. A status change appends a history
// row inside the same transaction.
func (s *ProductService) UpdateProduct(id uint, req *ProductRequest, userID *uint) (*models.Product, error) {
	if err := validateProductRequest(req); err != nil {
		return nil, err
	}

	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	product, err := s.findProduct(db, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkSKUUnique(db, req.SKU, id); err != nil {
		return nil, err
	}

	if err := s.checkCatalogRefs(db, req); err != nil {
		return nil, err
	}

	previousStatusID := product.StatusID

	err = database.WithTransaction(db, func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"model":       strings.TrimSpace(req.Model),
			"sku":         strings.TrimSpace(req.SKU),
			"ean":         strings.TrimSpace(req.EAN),
			"category_id": req.CategoryID,
			"status_id":   req.StatusID,
		}
		if err := tx.Model(product).Updates(updates).Error; err != nil {
			return storeError(err, "failed to update product")
		}

		if req.StatusID != nil && (previousStatusID == nil || *previousStatusID != *req.StatusID) {
			history := &models.StatusHistoryEntry{
				ProductID: product.ID,
				StatusID:  *req.StatusID,
				UserID:    userID,
				Notes:     "Status updated",
			}
			if err := tx.Create(history).Error; err != nil {
				return storeError(err, "failed to record status change")
			}
		}

		if err := tx.First(product, id).Error; err != nil {
			return storeError(err, "failed to reload product")
		}

		return s.completion.Attach(tx, product)
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes the product; the schema cascades to every child
// collection. Deleting an absent id is an error, never a silent success.
func (s *ProductService) DeleteProduct(id uint) error {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	if _, err := s.findProduct(db, id); err != nil {
		return err
	}

	if err := db.Delete(&models.Product{}, id).Error; err != nil {
		return storeError(err, "failed to delete product")
	}

	return nil
}

// SetImagePath records the stored image location and refreshes the
// completion cache. The image does not participate in the score itself.
func (s *ProductService) SetImagePath(id uint, path string) (*models.Product, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	product, err := s.findProduct(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Model(product).Update("image_path", path).Error; err != nil {
		return nil, storeError(err, "failed to store image path")
	}

	if err := s.completion.Attach(db, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *ProductService) findProduct(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Product")
		}
		return nil, storeError(err, "failed to fetch product")
	}
	return &product, nil
}

func (s *ProductService) checkSKUUnique(db *gorm.DB, sku string, excludeID uint) error {
	var count int64
	query := db.Model(&models.Product{}).Where("sku = ?", strings.TrimSpace(sku))
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return storeError(err, "failed to check SKU uniqueness")
	}
	if count > 0 {
		return apperrors.Conflict("SKU already exists")
	}
	return nil
}

func (s *ProductService) checkCatalogRefs(db *gorm.DB, req *ProductRequest) error {
	if req.CategoryID != nil {
		var count int64
		if err := db.Model(&models.Category{}).Where("id = ?", *req.CategoryID).Count(&count).Error; err != nil {
			return storeError(err, "failed to check category")
		}
		if count == 0 {
			return apperrors.NotFound("Category")
		}
	}
	if req.StatusID != nil {
		var count int64
		if err := db.Model(&models.StatusType{}).Where("id = ?", *req.StatusID).Count(&count).Error; err != nil {
			return storeError(err, "failed to check status type")
		}
		if count == 0 {
			return apperrors.NotFound("Status type")
		}
	}
	return nil
}

func validateProductRequest(req *ProductRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return apperrors.Validation("%s", utils.FirstValidationMessage(err))
	}
	if strings.TrimSpace(req.Model) == "" || strings.TrimSpace(req.SKU) == "" {
		return apperrors.Validation("model and sku are required")
	}
	return nil
}

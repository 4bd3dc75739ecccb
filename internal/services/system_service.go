// internal/services/system_service.go
package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/pimstack/pim-backend/internal/models"
)

const (
	apiVersion = "1.0.0"
	apiName    = "PIM System API"
)

// SystemService serves the operational endpoints: health status, version
// info and the simulated SAP inventory lookup.
type SystemService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewSystemService(db *gorm.DB, timeout time.Duration) *SystemService {
	return &SystemService{db: db, timeout: timeout}
}

type SystemStatus struct {
	Status       string    `json:"status"`
	Database     string    `json:"database"`
	ProductCount int64     `json:"product_count"`
	ServerTime   time.Time `json:"server_time"`
}

type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type SapInventory struct {
	ProductID uint      `json:"product_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *SystemService) Status() (*SystemStatus, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	status := &SystemStatus{
		Status:     "ok",
		Database:   s.db.Dialector.Name(),
		ServerTime: time.Now().UTC(),
	}

	if err := db.Model(&models.Product{}).Count(&status.ProductCount).Error; err != nil {
		return nil, storeError(err, "failed to count products")
	}
	return status, nil
}

func (s *SystemService) Version() *VersionInfo {
	return &VersionInfo{Name: apiName, Version: apiVersion}
}

// Inventory returns simulated warehouse data for a product. There is no
// live SAP connection; quantity and location are derived from the product
// id so repeated calls stay stable.
func (s *SystemService) Inventory(productID uint) (*SapInventory, error) {
	db, cancel := timedSession(s.db, s.timeout)
	defer cancel()

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		return nil, catalogFetchError(err, "Product")
	}

	warehouses := []string{"WH-NORTH", "WH-SOUTH", "WH-EAST", "WH-WEST"}

	return &SapInventory{
		ProductID: product.ID,
		SKU:       product.SKU,
		Quantity:  int(product.ID*37%500) + 1,
		Location:  warehouses[int(product.ID)%len(warehouses)],
		UpdatedAt: time.Now().UTC(),
	}, nil
}

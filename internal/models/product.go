// internal/models/product.go
package models

import (
	"time"
)

// Product is the root catalog entity. Model and SKU are required; SKU is
// unique across all products. Completion is derived on every read and never
// trusted from the stored cache column.
type Product struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	Model      string  `json:"model" gorm:"size:255;not null"`
	SKU        string  `json:"sku" gorm:"column:sku;uniqueIndex;size:100;not null"`
	EAN        string  `json:"ean" gorm:"column:ean;size:50"`
	CategoryID *uint   `json:"category_id"`
	StatusID   *uint   `json:"status_id"`
	ImagePath  *string `json:"image_path"`

	// Cache column only. Overwritten on every recompute, never read back.
	CompletionCache int `json:"-" gorm:"column:completion_percentage;default:0"`

	// Derived score attached by the completion service.
	Completion int `json:"completion" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *Category   `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Status   *StatusType `json:"-" gorm:"foreignKey:StatusID;constraint:OnDelete:SET NULL"`
}

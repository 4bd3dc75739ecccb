// internal/models/catalog.go
package models

// Catalog entities live independently of products and are referenced, never
// owned. Deleting one follows the per-column policy declared on the
// referencing side (SET NULL on products, CASCADE on child rows).

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description"`
}

type StatusType struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description"`
}

type PropertyType struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description"`
}

type Language struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Code string `json:"code" gorm:"uniqueIndex;size:10;not null"`
	Name string `json:"name" gorm:"size:100;not null"`
}

// PackagingLogisticsField describes one configurable logistics attribute
// (weight, dimensions, package type...). Type is a widget hint for the UI;
// Options carries the comma-separated choices for select fields.
type PackagingLogisticsField struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	Name    string  `json:"name" gorm:"size:255;not null"`
	Type    string  `json:"type" gorm:"size:50;not null"`
	Unit    *string `json:"unit"`
	Options *string `json:"options"`
}

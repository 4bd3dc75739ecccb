// internal/models/children.go
package models

import (
	"time"
)

// Child collections. Every row is owned by exactly one product and is
// cascade-deleted with it.

type PackageContent struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	Item      string `json:"item" gorm:"size:255;not null"`
	Quantity  int    `json:"quantity" gorm:"not null;default:1"`

	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type Property struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	ProductID      uint   `json:"product_id" gorm:"not null;index"`
	PropertyTypeID *uint  `json:"property_type_id"`
	Name           string `json:"name" gorm:"size:255;not null"`
	Value          string `json:"value"`

	Product      *Product      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PropertyType *PropertyType `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

type ProductLanguage struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ProductID   uint   `json:"product_id" gorm:"not null;index"`
	LanguageID  uint   `json:"language_id" gorm:"not null"`
	Name        string `json:"name" gorm:"size:255;not null"`
	Description string `json:"description"`

	// Joined catalog fields, populated on read.
	Code         string `json:"code,omitempty" gorm:"->;-:migration"`
	LanguageName string `json:"language_name,omitempty" gorm:"->;-:migration"`

	Product  *Product  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Language *Language `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// StatusHistoryEntry is append-only: rows are written when a product's
// status is set or changed and are never edited afterwards.
type StatusHistoryEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	StatusID  uint      `json:"status_id" gorm:"not null"`
	Date      time.Time `json:"date" gorm:"autoCreateTime"`
	UserID    *uint     `json:"user_id"`
	Notes     string    `json:"notes"`

	StatusName string `json:"status_name,omitempty" gorm:"->;-:migration"`

	Product *Product    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Status  *StatusType `json:"-" gorm:"foreignKey:StatusID;constraint:OnDelete:CASCADE"`
}

func (StatusHistoryEntry) TableName() string { return "status_history" }

type PackagingLogisticsValue struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	FieldID   uint   `json:"field_id" gorm:"not null"`
	Name      string `json:"name" gorm:"size:255;not null"`
	Value     string `json:"value"`

	FieldName string  `json:"field_name,omitempty" gorm:"->;-:migration"`
	FieldType string  `json:"type,omitempty" gorm:"->;-:migration"`
	Unit      *string `json:"unit,omitempty" gorm:"->;-:migration"`

	Product *Product                 `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Field   *PackagingLogisticsField `json:"-" gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
}

type Address struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	Type      string `json:"type" gorm:"size:50;not null"`
	Name      string `json:"name" gorm:"size:255;not null"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`

	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type SerialNumber struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	ProductID      uint       `json:"product_id" gorm:"not null;index"`
	SerialNumber   string     `json:"serial_number" gorm:"size:255;not null"`
	ProductionDate *time.Time `json:"production_date"`
	Notes          string     `json:"notes"`

	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type ImeiMac struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProductID uint   `json:"product_id" gorm:"not null;index"`
	Type      string `json:"type" gorm:"size:20;not null"`
	Value     string `json:"value" gorm:"size:100;not null"`
	Notes     string `json:"notes"`

	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (ImeiMac) TableName() string { return "imei_mac" }

type Software struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ProductID   uint       `json:"product_id" gorm:"not null;index"`
	Name        string     `json:"name" gorm:"size:255;not null"`
	Version     string     `json:"version" gorm:"size:100;not null"`
	ReleaseDate *time.Time `json:"release_date"`
	Notes       string     `json:"notes"`

	Product *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Software) TableName() string { return "software" }

type UserManual struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	ProductID  uint   `json:"product_id" gorm:"not null;index"`
	LanguageID uint   `json:"language_id" gorm:"not null"`
	Title      string `json:"title" gorm:"size:255;not null"`
	FilePath   string `json:"file_path"`
	Version    string `json:"version" gorm:"size:100"`

	Code         string `json:"code,omitempty" gorm:"->;-:migration"`
	LanguageName string `json:"language_name,omitempty" gorm:"->;-:migration"`

	Product  *Product  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Language *Language `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

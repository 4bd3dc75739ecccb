// internal/models/links.go
package models

// Many-to-many link rows. These have no surrogate id; the pair is the key.
// In the child-collection API the linked entity's id addresses the row.

type ProductCategory struct {
	ProductID  uint `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `json:"category_id" gorm:"primaryKey;autoIncrement:false"`

	Product  *Product  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

type CompatibleProduct struct {
	ProductID    uint `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	CompatibleID uint `json:"compatible_id" gorm:"primaryKey;autoIncrement:false"`

	Product    *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Compatible *Product `json:"-" gorm:"foreignKey:CompatibleID;constraint:OnDelete:CASCADE"`
}

type Accessory struct {
	ProductID   uint `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	AccessoryID uint `json:"accessory_id" gorm:"primaryKey;autoIncrement:false"`

	Product       *Product `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AccessoryItem *Product `json:"-" gorm:"foreignKey:AccessoryID;constraint:OnDelete:CASCADE"`
}

func (Accessory) TableName() string { return "accessories" }

// ProductRef is the shape returned when a link kind is listed: the linked
// product reduced to its identifying fields.
type ProductRef struct {
	ID    uint   `json:"id"`
	Model string `json:"model"`
	SKU   string `json:"sku"`
}

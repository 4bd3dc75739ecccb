// internal/models/common.go
package models

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleEditor UserRole = "editor"
	UserRoleReader UserRole = "reader"
)

// ChildKind identifies one of the product-owned child collections as it
// appears in API paths. The set is fixed; the completion score counts one
// check per kind regardless of how many rows the kind holds.
type ChildKind string

const (
	KindPackageContents    ChildKind = "package-contents"
	KindProperties         ChildKind = "properties"
	KindLanguages          ChildKind = "languages"
	KindStatusHistory      ChildKind = "status-history"
	KindPackagingLogistics ChildKind = "packaging-logistics"
	KindAddresses          ChildKind = "addresses"
	KindCategories         ChildKind = "categories"
	KindCompatible         ChildKind = "compatible"
	KindSerialNumbers      ChildKind = "serial-numbers"
	KindImeiMac            ChildKind = "imei-mac"
	KindSoftware           ChildKind = "software"
	KindManuals            ChildKind = "manuals"
	KindAccessories        ChildKind = "accessories"
)

// ChildKinds lists every child collection in a fixed order.
var ChildKinds = []ChildKind{
	KindPackageContents,
	KindProperties,
	KindLanguages,
	KindStatusHistory,
	KindPackagingLogistics,
	KindAddresses,
	KindCategories,
	KindCompatible,
	KindSerialNumbers,
	KindImeiMac,
	KindSoftware,
	KindManuals,
	KindAccessories,
}

func IsChildKind(s string) bool {
	for _, k := range ChildKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

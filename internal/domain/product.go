package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item. Stock is decremented only by a
// committed sale or an explicit stock adjustment and never goes below zero.
type Product struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"size:200;index;not null" json:"name"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Category   string          `gorm:"size:100;index" json:"category"`
	Stock      int             `gorm:"not null;default:0" json:"stock"`
	SupplierID *int64          `gorm:"index" json:"supplier_id,omitempty"`
	Supplier   *Supplier       `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "product"
}

// ProductView is a product row joined with its supplier company name.
type ProductView struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Stock        int             `json:"stock"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	SupplierName *string         `json:"supplier_name,omitempty"`
}

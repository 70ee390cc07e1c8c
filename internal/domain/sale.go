package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable ledger entry. Total is the product price multiplied
// by Quantity at the moment of registration.
type Sale struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64           `gorm:"index;not null" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"-"`
	CustomerID int64           `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer       `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Total      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	SoldAt     time.Time       `gorm:"index;not null" json:"sold_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName Specify table name
func (Sale) TableName() string {
	return "sale"
}

// SaleRecord is a sale with product, category and customer names denormalized
// for listing.
type SaleRecord struct {
	ID           int64           `json:"id" csv:"id"`
	ProductID    int64           `json:"product_id" csv:"product_id"`
	ProductName  string          `json:"product_name" csv:"product_name"`
	Category     string          `json:"category" csv:"category"`
	CustomerID   int64           `json:"customer_id" csv:"customer_id"`
	CustomerName string          `json:"customer_name" csv:"customer_name"`
	Quantity     int             `json:"quantity" csv:"quantity"`
	Total        decimal.Decimal `json:"total" csv:"total"`
	SoldAt       time.Time       `json:"sold_at" csv:"sold_at"`
}

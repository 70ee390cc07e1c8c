package domain

import "time"

// Supplier represents a vendor company products are sourced from
type Supplier struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyName string    `gorm:"size:200;not null" json:"company_name"`
	Contact     string    `gorm:"size:200" json:"contact"`
	Phone       string    `gorm:"size:50" json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName Specify table name
func (Supplier) TableName() string {
	return "supplier"
}

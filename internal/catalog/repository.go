// Package catalog is the data-access layer for products, customers and
// suppliers. Sales are not created here; see package ledger.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/talkincode/salesledger/internal/domain"
)

// ProductInput carries the fields needed to create a product
type ProductInput struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	Price      decimal.Decimal `json:"price"`
	Category   string          `json:"category" validate:"max=100"`
	Stock      int             `json:"stock" validate:"min=0"`
	SupplierID *int64          `json:"supplier_id"`
}

// CustomerInput carries the fields needed to create a customer
type CustomerInput struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email,max=200"`
	Phone string `json:"phone" validate:"max=50"`
}

// SupplierInput carries the fields needed to create a supplier
type SupplierInput struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	Contact     string `json:"contact" validate:"max=200"`
	Phone       string `json:"phone" validate:"max=50"`
}

// ProductRepository handles database operations for products
type ProductRepository interface {
	// Create inserts a new product
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)

	// GetByID retrieves a product with its supplier name
	GetByID(ctx context.Context, id int64) (*domain.ProductView, error)

	// List retrieves all products ordered by id
	List(ctx context.Context) ([]domain.ProductView, error)

	// ListByCategory retrieves products whose category contains term, ignoring case
	ListByCategory(ctx context.Context, term string) ([]domain.ProductView, error)

	// UpdateStock sets the stock of a product to an absolute quantity
	UpdateStock(ctx context.Context, productID int64, newQuantity int) error
}

// CustomerRepository handles database operations for customers
type CustomerRepository interface {
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
}

// SupplierRepository handles database operations for suppliers
type SupplierRepository interface {
	Create(ctx context.Context, in SupplierInput) (*domain.Supplier, error)
	List(ctx context.Context) ([]domain.Supplier, error)
}

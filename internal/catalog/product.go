package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM-based product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

var _ ProductRepository = (*GormProductRepository)(nil)

func (r *GormProductRepository) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" {
		return nil, domain.InvalidInputf("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, domain.InvalidInputf("product price must be >= 0, got %s", in.Price)
	}
	if in.Stock < 0 {
		return nil, domain.InvalidInputf("product stock must be >= 0, got %d", in.Stock)
	}

	db := r.db.WithContext(ctx)
	if in.SupplierID != nil {
		var count int64
		if err := db.Model(&domain.Supplier{}).Where("id = ?", *in.SupplierID).Count(&count).Error; err != nil {
			return nil, domain.Storage("create product", err)
		}
		if count == 0 {
			return nil, domain.NotFoundf("supplier %d", *in.SupplierID)
		}
	}

	p := &domain.Product{
		Name:       in.Name,
		Price:      in.Price.Round(2),
		Category:   in.Category,
		Stock:      in.Stock,
		SupplierID: in.SupplierID,
	}
	if err := db.Create(p).Error; err != nil {
		return nil, domain.Storage("create product", err)
	}
	return p, nil
}

// productViews selects products joined with their supplier company name
func (r *GormProductRepository) productViews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("product p").
		Select("p.id, p.name, p.price, p.category, p.stock, p.supplier_id, s.company_name AS supplier_name").
		Joins("LEFT JOIN supplier s ON s.id = p.supplier_id")
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.ProductView, error) {
	var rows []domain.ProductView
	if err := r.productViews(ctx).Where("p.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, domain.Storage("get product", err)
	}
	if len(rows) == 0 {
		return nil, domain.NotFoundf("product %d", id)
	}
	return &rows[0], nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.ProductView, error) {
	rows := make([]domain.ProductView, 0)
	if err := r.productViews(ctx).Order("p.id").Scan(&rows).Error; err != nil {
		return nil, domain.Storage("list products", err)
	}
	return rows, nil
}

func (r *GormProductRepository) ListByCategory(ctx context.Context, term string) ([]domain.ProductView, error) {
	term = strings.TrimSpace(term)
	query := r.productViews(ctx)
	if strings.EqualFold(r.db.Dialector.Name(), "postgres") {
		query = query.Where("p.category ILIKE ?", "%"+term+"%")
	} else {
		query = query.Where("LOWER(p.category) LIKE ?", "%"+strings.ToLower(term)+"%")
	}

	rows := make([]domain.ProductView, 0)
	if err := query.Order("p.id").Scan(&rows).Error; err != nil {
		return nil, domain.Storage("list products by category", err)
	}
	return rows, nil
}

// UpdateStock is the manual stock adjustment path. Sales never call it;
// they decrement stock inside the ledger transaction.
func (r *GormProductRepository) UpdateStock(ctx context.Context, productID int64, newQuantity int) error {
	if newQuantity < 0 {
		return domain.InvalidInputf("stock must be >= 0, got %d", newQuantity)
	}
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", productID).
		Update("stock", newQuantity)
	if res.Error != nil {
		return domain.Storage("update stock", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.WithMessage(domain.NotFoundf("product %d", productID), "update stock")
	}
	return nil
}

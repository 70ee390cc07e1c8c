package catalog

import (
	"context"
	"strings"

	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

// GormSupplierRepository is the GORM implementation of SupplierRepository
type GormSupplierRepository struct {
	db *gorm.DB
}

func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

var _ SupplierRepository = (*GormSupplierRepository)(nil)

func (r *GormSupplierRepository) Create(ctx context.Context, in SupplierInput) (*domain.Supplier, error) {
	company := strings.TrimSpace(in.CompanyName)
	if company == "" {
		return nil, domain.InvalidInputf("supplier company name is required")
	}
	s := &domain.Supplier{
		CompanyName: company,
		Contact:     strings.TrimSpace(in.Contact),
		Phone:       strings.TrimSpace(in.Phone),
	}
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, domain.Storage("create supplier", err)
	}
	return s, nil
}

func (r *GormSupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := make([]domain.Supplier, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&suppliers).Error; err != nil {
		return nil, domain.Storage("list suppliers", err)
	}
	return suppliers, nil
}

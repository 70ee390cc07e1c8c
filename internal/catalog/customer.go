package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

// GormCustomerRepository is the GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM-based customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

var _ CustomerRepository = (*GormCustomerRepository)(nil)

func (r *GormCustomerRepository) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.InvalidInputf("customer name is required")
	}
	c := &domain.Customer{
		Name:  name,
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, domain.Storage("create customer", err)
	}
	return c, nil
}

func (r *GormCustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundf("customer %d", id)
	}
	if err != nil {
		return nil, domain.Storage("get customer", err)
	}
	return &c, nil
}

func (r *GormCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	customers := make([]domain.Customer, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&customers).Error; err != nil {
		return nil, domain.Storage("list customers", err)
	}
	return customers, nil
}

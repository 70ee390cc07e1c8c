package app

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/talkincode/salesledger/internal/catalog"
	"github.com/talkincode/salesledger/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDemoData inserts a small demo catalog when the tables are empty.
// Everything is written in one transaction, so a failed seed leaves no rows.
func (a *Application) SeedDemoData(ctx context.Context) error {
	var count int64
	if err := a.gormDB.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return domain.Storage("seed demo data", err)
	}
	if count > 0 {
		zap.L().Info("demo data skipped, products already present", zap.Int64("products", count))
		return nil
	}

	return a.gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seedDemoCatalog(ctx,
			catalog.NewGormSupplierRepository(tx),
			catalog.NewGormCustomerRepository(tx),
			catalog.NewGormProductRepository(tx))
	})
}

// seedDemoCatalog writes suppliers, customers and products through the given repositories
func seedDemoCatalog(ctx context.Context, supplierRepo catalog.SupplierRepository,
	customerRepo catalog.CustomerRepository, productRepo catalog.ProductRepository) error {
	suppliers := []catalog.SupplierInput{
		{CompanyName: "Distribuidora Central", Contact: "Carla Souza", Phone: "11 4000-1000"},
		{CompanyName: "Papelaria Atlas", Contact: "Rui Lima", Phone: "11 4000-2000"},
	}
	supplierIDs := make([]int64, 0, len(suppliers))
	for _, s := range suppliers {
		created, err := supplierRepo.Create(ctx, s)
		if err != nil {
			return err
		}
		supplierIDs = append(supplierIDs, created.ID)
		zap.L().Info("initialized demo supplier", zap.String("company", created.CompanyName))
	}

	customers := []catalog.CustomerInput{
		{Name: "Maria Silva", Email: "maria@example.com", Phone: "11 90000-0001"},
		{Name: "Joao Pereira", Email: "joao@example.com", Phone: "11 90000-0002"},
	}
	for _, c := range customers {
		created, err := customerRepo.Create(ctx, c)
		if err != nil {
			return err
		}
		zap.L().Info("initialized demo customer", zap.String("name", created.Name))
	}

	products := []catalog.ProductInput{
		{Name: "Coffee 500g", Price: decimal.RequireFromString("18.90"), Category: "Groceries", Stock: 40, SupplierID: &supplierIDs[0]},
		{Name: "Green Tea", Price: decimal.RequireFromString("9.50"), Category: "Groceries", Stock: 3, SupplierID: &supplierIDs[0]},
		{Name: "Notebook A5", Price: decimal.RequireFromString("2.50"), Category: "Stationery", Stock: 10, SupplierID: &supplierIDs[1]},
		{Name: "Ballpoint Pen", Price: decimal.RequireFromString("1.20"), Category: "Stationery", Stock: 120, SupplierID: &supplierIDs[1]},
		{Name: "Desk Lamp", Price: decimal.RequireFromString("79.00"), Category: "Home", Stock: 2},
	}
	for _, p := range products {
		created, err := productRepo.Create(ctx, p)
		if err != nil {
			return err
		}
		zap.L().Info("initialized demo product", zap.String("name", created.Name), zap.Int("stock", created.Stock))
	}
	return nil
}

package catalog

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/testdb"
)

func TestProductCreateAndList(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	suppliers := NewGormSupplierRepository(db)
	products := NewGormProductRepository(db)

	acme, err := suppliers.Create(ctx, SupplierInput{CompanyName: " Acme Ltda ", Contact: "Ana", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltda", acme.CompanyName)

	coffee, err := products.Create(ctx, ProductInput{
		Name: "Coffee", Price: decimal.RequireFromString("12.90"), Category: "Drinks", Stock: 4, SupplierID: &acme.ID,
	})
	require.NoError(t, err)
	_, err = products.Create(ctx, ProductInput{Name: "Bread", Price: decimal.RequireFromString("3.25"), Category: "Bakery", Stock: 20})
	require.NoError(t, err)

	all, err := products.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, coffee.ID, all[0].ID)
	require.NotNil(t, all[0].SupplierName)
	assert.Equal(t, "Acme Ltda", *all[0].SupplierName)
	assert.Nil(t, all[1].SupplierName)
	assert.True(t, all[1].Price.Equal(decimal.RequireFromString("3.25")))

	got, err := products.GetByID(ctx, coffee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coffee", got.Name)
	assert.Equal(t, 4, got.Stock)
}

func TestProductCreateValidation(t *testing.T) {
	ctx := context.Background()
	products := NewGormProductRepository(testdb.New(t))

	_, err := products.Create(ctx, ProductInput{Name: "  ", Price: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = products.Create(ctx, ProductInput{Name: "Tea", Price: decimal.NewFromInt(-1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = products.Create(ctx, ProductInput{Name: "Tea", Price: decimal.NewFromInt(1), Stock: -2})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	missing := int64(42)
	_, err = products.Create(ctx, ProductInput{Name: "Tea", Price: decimal.NewFromInt(1), SupplierID: &missing})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProductGetByIDNotFound(t *testing.T) {
	_, err := NewGormProductRepository(testdb.New(t)).GetByID(context.Background(), 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListByCategoryIgnoresCase(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.Product(t, db, "Cola", "Soft Drinks", "5.00", 10)
	testdb.Product(t, db, "Juice", "drinks", "7.00", 10)
	testdb.Product(t, db, "Soap", "Hygiene", "2.00", 10)

	rows, err := NewGormProductRepository(db).ListByCategory(ctx, "DRINK")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Cola", rows[0].Name)
	assert.Equal(t, "Juice", rows[1].Name)

	rows, err = NewGormProductRepository(db).ListByCategory(ctx, "toys")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdateStock(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	p := testdb.Product(t, db, "Cola", "Drinks", "5.00", 10)
	products := NewGormProductRepository(db)

	require.NoError(t, products.UpdateStock(ctx, p.ID, 25))
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Stock)

	require.NoError(t, products.UpdateStock(ctx, p.ID, 0))

	err = products.UpdateStock(ctx, p.ID, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = products.UpdateStock(ctx, 999, 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCustomersAndSuppliers(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	customers := NewGormCustomerRepository(db)
	suppliers := NewGormSupplierRepository(db)

	_, err := customers.Create(ctx, CustomerInput{Name: ""})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	maria, err := customers.Create(ctx, CustomerInput{Name: "Maria", Email: "maria@example.com"})
	require.NoError(t, err)
	_, err = customers.Create(ctx, CustomerInput{Name: "Joao"})
	require.NoError(t, err)

	got, err := customers.GetByID(ctx, maria.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria@example.com", got.Email)

	_, err = customers.GetByID(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = suppliers.Create(ctx, SupplierInput{})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	empty, err := suppliers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

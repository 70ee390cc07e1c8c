// Package testdb opens migrated in-memory databases for package tests.
package testdb

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a fresh sqlite :memory: database with every table migrated.
// The pool is pinned to one connection: each sqlite connection owns its own
// in-memory database, and a single connection also serialises transactions.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// NewFile returns a migrated sqlite database in a temporary file whose pool
// allows conns connections, so transactions from different goroutines overlap.
func NewFile(t testing.TB, conns int) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "ledger.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// Product inserts a product and returns it.
func Product(t testing.TB, db *gorm.DB, name, category, price string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Customer inserts a customer and returns it.
func Customer(t testing.TB, db *gorm.DB, name string) *domain.Customer {
	t.Helper()
	c := &domain.Customer{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(c).Error)
	return c
}

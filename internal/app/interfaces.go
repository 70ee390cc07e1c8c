package app

import (
	"github.com/robfig/cron/v3"
	"github.com/talkincode/salesledger/config"
	"github.com/talkincode/salesledger/internal/catalog"
	"github.com/talkincode/salesledger/internal/ledger"
	"github.com/talkincode/salesledger/internal/report"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// LedgerProvider provides sale registration and history
type LedgerProvider interface {
	Ledger() *ledger.Ledger
}

// ReportProvider provides the read-only report engine
type ReportProvider interface {
	Reports() *report.Engine
}

// CatalogProvider provides product, customer and supplier data access
type CatalogProvider interface {
	Products() catalog.ProductRepository
	Customers() catalog.CustomerRepository
	Suppliers() catalog.SupplierRepository
}

// SchedulerProvider exposes the background job scheduler
type SchedulerProvider interface {
	Scheduler() *cron.Cron
	SchedCriticalStockTask()
}

// AppContext combines all provider interfaces for full application context
// Services should depend on specific providers or this combined interface
type AppContext interface {
	DBProvider
	ConfigProvider
	LedgerProvider
	ReportProvider
	CatalogProvider
	SchedulerProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}

package app

import (
	"os"
	"runtime/debug"
	"time"
	_ "time/tzdata"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/salesledger/config"
	"github.com/talkincode/salesledger/internal/catalog"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/ledger"
	"github.com/talkincode/salesledger/internal/report"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"
)

type Application struct {
	appConfig *config.AppConfig
	gormDB    *gorm.DB
	sched     *cron.Cron
	bus       EventBus.Bus
	ledger    *ledger.Ledger
	reports   *report.Engine
	products  *catalog.GormProductRepository
	customers *catalog.GormCustomerRepository
	suppliers *catalog.GormSupplierRepository
}

// Ensure Application implements all interfaces
var (
	_ DBProvider      = (*Application)(nil)
	_ ConfigProvider  = (*Application)(nil)
	_ LedgerProvider  = (*Application)(nil)
	_ ReportProvider  = (*Application)(nil)
	_ CatalogProvider = (*Application)(nil)
	_ AppContext      = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *gorm.DB {
	return a.gormDB
}

// OverrideDB replaces the application's database handle and rebuilds the
// services on top of it (used in tests).
func (a *Application) OverrideDB(db *gorm.DB) {
	a.gormDB = db
	a.initServices()
}

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	initLogger(cfg)

	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	a.gormDB = getDatabase(cfg.Database, cfg.System.Workdir)
	zap.S().Infof("Database connection successful, type: %s", cfg.Database.Type)

	if err := a.MigrateDB(false); err != nil {
		zap.S().Errorf("database migration failed: %v", err)
	}

	a.initServices()
	a.initJob()
}

func initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// initServices wires the ledger, the report engine and the catalog to the
// current database handle and event bus.
func (a *Application) initServices() {
	if a.bus == nil {
		a.bus = EventBus.New()
		if err := a.bus.SubscribeAsync(ledger.TopicSaleRegistered, a.onSaleRegistered, false); err != nil {
			zap.L().Error("subscribe sale events failed", zap.Error(err))
		}
	}
	a.ledger = ledger.NewLedger(a.gormDB, ledger.WithPublisher(a.bus))
	a.reports = report.NewEngine(a.gormDB, report.Defaults{
		CriticalThreshold:  a.appConfig.Report.CriticalThreshold,
		HighStockThreshold: a.appConfig.Report.HighStockThreshold,
		TopN:               a.appConfig.Report.TopN,
	})
	a.products = catalog.NewGormProductRepository(a.gormDB)
	a.customers = catalog.NewGormCustomerRepository(a.gormDB)
	a.suppliers = catalog.NewGormSupplierRepository(a.gormDB)
}

func (a *Application) MigrateDB(track bool) (err error) {
	defer func() {
		if err1 := recover(); err1 != nil {
			if os.Getenv("GO_DEGUB_TRACE") != "" {
				debug.PrintStack()
			}
			err2, ok := err1.(error)
			if ok {
				err = err2
				zap.S().Error(err2.Error())
			}
		}
	}()
	db := a.gormDB
	if track {
		db = db.Debug()
	}
	return db.Migrator().AutoMigrate(domain.Tables...)
}

func (a *Application) DropAll() {
	_ = a.gormDB.Migrator().DropTable(domain.Tables...)
}

func (a *Application) InitDb() {
	a.DropAll()
	err := a.gormDB.Migrator().AutoMigrate(domain.Tables...)
	if err != nil {
		zap.S().Error(err)
	}
}

// Ledger returns the sale ledger
func (a *Application) Ledger() *ledger.Ledger {
	return a.ledger
}

// Reports returns the report engine
func (a *Application) Reports() *report.Engine {
	return a.reports
}

// Products returns the product repository
func (a *Application) Products() catalog.ProductRepository {
	return a.products
}

// Customers returns the customer repository
func (a *Application) Customers() catalog.CustomerRepository {
	return a.customers
}

// Suppliers returns the supplier repository
func (a *Application) Suppliers() catalog.SupplierRepository {
	return a.suppliers
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		<-a.sched.Stop().Done()
	}
	if a.bus != nil {
		a.bus.WaitAsync()
	}
	if a.gormDB != nil {
		if sqlDB, err := a.gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = zap.L().Sync()
}

// Package report computes read-only aggregations over products and sales.
// Every report is a single statement, so it never observes a sale half
// applied; Snapshot groups all of them in one read-only transaction.
package report

import (
	"context"
	"database/sql"
	"strings"

	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

// Defaults used when a report is called with a non-positive argument
type Defaults struct {
	CriticalThreshold  int
	HighStockThreshold int
	TopN               int
}

// Engine runs reports against db
type Engine struct {
	db       *gorm.DB
	defaults Defaults
}

// NewEngine creates a report engine. Zero defaults fall back to 5.
func NewEngine(db *gorm.DB, defaults Defaults) *Engine {
	if defaults.CriticalThreshold <= 0 {
		defaults.CriticalThreshold = 5
	}
	if defaults.HighStockThreshold <= 0 {
		defaults.HighStockThreshold = 5
	}
	if defaults.TopN <= 0 {
		defaults.TopN = 5
	}
	return &Engine{db: db, defaults: defaults}
}

// Defaults returns the effective default thresholds
func (e *Engine) Defaults() Defaults {
	return e.defaults
}

func pick(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// CriticalStock products with stock below threshold, lowest stock first
func (e *Engine) CriticalStock(ctx context.Context, threshold int) ([]StockLevel, error) {
	return criticalStock(e.db.WithContext(ctx), pick(threshold, e.defaults.CriticalThreshold))
}

func criticalStock(db *gorm.DB, threshold int) ([]StockLevel, error) {
	rows := make([]StockLevel, 0)
	err := db.Model(&domain.Product{}).
		Select("id, name, category, stock").
		Where("stock < ?", threshold).
		Order("stock ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("critical stock report", err)
	}
	return rows, nil
}

// TopSellers products ranked by units sold, ties broken by product id.
// Products without sales are not listed.
func (e *Engine) TopSellers(ctx context.Context, n int) ([]ProductSales, error) {
	return topSellers(e.db.WithContext(ctx), pick(n, e.defaults.TopN))
}

func topSellers(db *gorm.DB, n int) ([]ProductSales, error) {
	rows := make([]ProductSales, 0)
	err := db.Table("sale s").
		Select("p.id AS product_id, p.name, p.category, CAST(SUM(s.quantity) AS BIGINT) AS total_sold").
		Joins("JOIN product p ON p.id = s.product_id").
		Group("p.id, p.name, p.category").
		Order("total_sold DESC, p.id ASC").
		Limit(n).
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("top sellers report", err)
	}
	return rows, nil
}

// RevenueByCategory number of sales and revenue per category, highest revenue first
func (e *Engine) RevenueByCategory(ctx context.Context) ([]CategoryRevenue, error) {
	return revenueByCategory(e.db.WithContext(ctx))
}

func revenueByCategory(db *gorm.DB) ([]CategoryRevenue, error) {
	rows := make([]CategoryRevenue, 0)
	err := db.Table("sale s").
		Select("p.category, COUNT(s.id) AS sales_count, SUM(s.total) AS revenue").
		Joins("JOIN product p ON p.id = s.product_id").
		Group("p.category").
		Order("revenue DESC, p.category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("revenue by category report", err)
	}
	for i := range rows {
		rows[i].Revenue = rows[i].Revenue.Round(2)
	}
	return rows, nil
}

// NeverSold products without any sale
func (e *Engine) NeverSold(ctx context.Context) ([]StockLevel, error) {
	return neverSold(e.db.WithContext(ctx))
}

func neverSold(db *gorm.DB) ([]StockLevel, error) {
	rows := make([]StockLevel, 0)
	err := db.Table("product p").
		Select("p.id, p.name, p.category, p.stock").
		Joins("LEFT JOIN sale s ON s.product_id = p.id").
		Where("s.id IS NULL").
		Order("p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("never sold report", err)
	}
	return rows, nil
}

type statusRow struct {
	ID         int64
	Name       string
	Stock      int
	SalesCount int64
}

// StockStatus products that were never sold or have stock below threshold,
// each tagged with the condition(s) that matched
func (e *Engine) StockStatus(ctx context.Context, threshold int) ([]ProductStatus, error) {
	return stockStatus(e.db.WithContext(ctx), pick(threshold, e.defaults.CriticalThreshold))
}

func stockStatus(db *gorm.DB, threshold int) ([]ProductStatus, error) {
	var scanned []statusRow
	err := db.Table("product p").
		Select("p.id, p.name, p.stock, COUNT(s.id) AS sales_count").
		Joins("LEFT JOIN sale s ON s.product_id = p.id").
		Group("p.id, p.name, p.stock").
		Having("COUNT(s.id) = 0 OR p.stock < ?", threshold).
		Order("p.id ASC").
		Scan(&scanned).Error
	if err != nil {
		return nil, domain.Storage("stock status report", err)
	}

	rows := make([]ProductStatus, 0, len(scanned))
	for _, r := range scanned {
		st := ProductStatus{
			ID:            r.ID,
			Name:          r.Name,
			Stock:         r.Stock,
			NeverSold:     r.SalesCount == 0,
			CriticalStock: r.Stock < threshold,
			Status:        make([]string, 0, 2),
		}
		if st.NeverSold {
			st.Status = append(st.Status, StatusNeverSold)
		}
		if st.CriticalStock {
			st.Status = append(st.Status, StatusCriticalStock)
		}
		rows = append(rows, st)
	}
	return rows, nil
}

// HighStock products with stock above threshold by category then price
func (e *Engine) HighStock(ctx context.Context, threshold int) ([]HighStockItem, error) {
	return highStock(e.db.WithContext(ctx), pick(threshold, e.defaults.HighStockThreshold))
}

func highStock(db *gorm.DB, threshold int) ([]HighStockItem, error) {
	rows := make([]HighStockItem, 0)
	err := db.Model(&domain.Product{}).
		Select("id, name, category, price, stock").
		Where("stock > ?", threshold).
		Order("category ASC, price ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("high stock report", err)
	}
	return rows, nil
}

// Snapshot runs every report with default arguments inside one read-only
// transaction. On postgres the transaction is REPEATABLE READ so all
// reports see the same committed state.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if snap.CriticalStock, err = criticalStock(tx, e.defaults.CriticalThreshold); err != nil {
			return err
		}
		if snap.TopSellers, err = topSellers(tx, e.defaults.TopN); err != nil {
			return err
		}
		if snap.RevenueByCategory, err = revenueByCategory(tx); err != nil {
			return err
		}
		if snap.NeverSold, err = neverSold(tx); err != nil {
			return err
		}
		if snap.StockStatus, err = stockStatus(tx, e.defaults.CriticalThreshold); err != nil {
			return err
		}
		snap.HighStock, err = highStock(tx, e.defaults.HighStockThreshold)
		return err
	}, e.snapshotTxOptions()...)
	if err != nil {
		return nil, domain.Storage("report snapshot", err)
	}
	return snap, nil
}

func (e *Engine) snapshotTxOptions() []*sql.TxOptions {
	if strings.EqualFold(e.db.Dialector.Name(), "postgres") {
		return []*sql.TxOptions{{Isolation: sql.LevelRepeatableRead, ReadOnly: true}}
	}
	return nil
}

// Package ledger registers sales against product stock and reads sale
// history back.
package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/talkincode/salesledger/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaleRequest is the input of RegisterSale. SoldAt is optional; when empty
// the registration time is used, otherwise it must be an ISO-8601 date or
// date-time.
type SaleRequest struct {
	ProductID  int64  `json:"product_id" validate:"required"`
	CustomerID int64  `json:"customer_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required"`
	SoldAt     string `json:"sold_at"`
}

// Ledger owns sale registration and the stock >= 0 invariant.
type Ledger struct {
	db  *gorm.DB
	bus Publisher
	now func() time.Time
}

// Option configures a Ledger
type Option func(*Ledger)

// WithPublisher publishes a SaleEvent on TopicSaleRegistered after each commit.
func WithPublisher(bus Publisher) Option {
	return func(l *Ledger) { l.bus = bus }
}

// WithClock overrides the clock used for sales without an explicit timestamp.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a ledger over db
func NewLedger(db *gorm.DB, opts ...Option) *Ledger {
	l := &Ledger{db: db, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterSale checks stock, records the sale and decrements stock in one
// transaction. The product row is read under an exclusive lock and the
// decrement is conditional on stock >= quantity, so concurrent sales of the
// same product cannot oversell. On any failure nothing is written.
func (l *Ledger) RegisterSale(ctx context.Context, req SaleRequest) (int64, error) {
	if req.Quantity <= 0 {
		return 0, domain.InvalidInputf("quantity must be positive, got %d", req.Quantity)
	}
	soldAt := l.now()
	if req.SoldAt != "" {
		t, err := ParseTimestamp(req.SoldAt)
		if err != nil {
			return 0, err
		}
		soldAt = t
	}

	sale := domain.Sale{
		ProductID:  req.ProductID,
		CustomerID: req.CustomerID,
		Quantity:   req.Quantity,
		SoldAt:     normalizeTime(soldAt),
	}
	var remaining int

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "price", "stock").
			Where("id = ?", req.ProductID).
			Take(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFoundf("product %d", req.ProductID)
		}
		if err != nil {
			return err
		}

		var customers int64
		if err := tx.Model(&domain.Customer{}).Where("id = ?", req.CustomerID).Count(&customers).Error; err != nil {
			return err
		}
		if customers == 0 {
			return domain.NotFoundf("customer %d", req.CustomerID)
		}

		if product.Stock < req.Quantity {
			return &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.Stock,
			}
		}

		sale.Total = product.Price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)
		if err := tx.Omit(clause.Associations).Create(&sale).Error; err != nil {
			return err
		}

		res := tx.Model(&domain.Product{}).
			Where("id = ? AND stock >= ?", req.ProductID, req.Quantity).
			Update("stock", gorm.Expr("stock - ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current domain.Product
			if err := tx.Select("id", "stock").Where("id = ?", req.ProductID).Take(&current).Error; err != nil {
				return err
			}
			return &domain.InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: current.Stock,
			}
		}
		remaining = product.Stock - req.Quantity
		return nil
	})
	if err != nil {
		err = domain.Storage("register sale", err)
		if errors.Is(err, domain.ErrStorage) {
			zap.L().Error("register sale failed",
				zap.String("namespace", "ledger"),
				zap.Int64("product_id", req.ProductID),
				zap.Int64("customer_id", req.CustomerID),
				zap.Int("quantity", req.Quantity),
				zap.Error(err))
		} else {
			zap.L().Info("sale refused",
				zap.String("namespace", "ledger"),
				zap.Int64("product_id", req.ProductID),
				zap.Int("quantity", req.Quantity),
				zap.String("reason", err.Error()))
		}
		return 0, err
	}

	zap.L().Info("sale registered",
		zap.String("namespace", "ledger"),
		zap.Int64("sale_id", sale.ID),
		zap.Int64("product_id", sale.ProductID),
		zap.Int("quantity", sale.Quantity),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.Int("remaining_stock", remaining))

	if l.bus != nil {
		l.bus.Publish(TopicSaleRegistered, SaleEvent{
			SaleID:         sale.ID,
			ProductID:      sale.ProductID,
			CustomerID:     sale.CustomerID,
			Quantity:       sale.Quantity,
			Total:          sale.Total,
			RemainingStock: remaining,
			SoldAt:         sale.SoldAt,
		})
	}
	return sale.ID, nil
}

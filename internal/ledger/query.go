package ledger

import (
	"context"

	"github.com/talkincode/salesledger/internal/domain"
	"gorm.io/gorm"
)

func (l *Ledger) saleRecords(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).
		Table("sale s").
		Select(`s.id, s.product_id, p.name AS product_name, p.category,
			s.customer_id, c.name AS customer_name, s.quantity, s.total, s.sold_at`).
		Joins("LEFT JOIN product p ON p.id = s.product_id").
		Joins("LEFT JOIN customer c ON c.id = s.customer_id").
		Order("s.sold_at DESC, s.id DESC")
}

// ListSales returns every sale, newest first.
func (l *Ledger) ListSales(ctx context.Context) ([]domain.SaleRecord, error) {
	rows := make([]domain.SaleRecord, 0)
	if err := l.saleRecords(ctx).Scan(&rows).Error; err != nil {
		return nil, domain.Storage("list sales", err)
	}
	return rows, nil
}

// ListSalesByPeriod returns sales with start <= sold_at <= end, newest first.
// Both bounds accept a date (midnight) or a date-time. An inverted range
// yields an empty result.
func (l *Ledger) ListSalesByPeriod(ctx context.Context, start, end string) ([]domain.SaleRecord, error) {
	from, err := ParseTimestamp(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseTimestamp(end)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.SaleRecord, 0)
	if from.After(to) {
		return rows, nil
	}
	err = l.saleRecords(ctx).
		Where("s.sold_at >= ? AND s.sold_at <= ?", normalizeTime(from), normalizeTime(to)).
		Scan(&rows).Error
	if err != nil {
		return nil, domain.Storage("list sales by period", err)
	}
	return rows, nil
}

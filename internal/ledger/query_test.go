package ledger

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/salesledger/internal/domain"
	"github.com/talkincode/salesledger/internal/testdb"
)

func seedPeriod(t *testing.T) (*Ledger, map[string]int64) {
	t.Helper()
	ctx := context.Background()
	db := testdb.New(t)
	pen := testdb.Product(t, db, "Pen", "Stationery", "1.50", 100)
	mug := testdb.Product(t, db, "Mug", "Kitchen", "8.00", 100)
	ana := testdb.Customer(t, db, "ana")
	l := NewLedger(db)

	ids := map[string]int64{}
	for _, s := range []struct {
		key     string
		product int64
		at      string
	}{
		{"jan01", pen.ID, "2024-01-01T00:00:00"},
		{"jan15", mug.ID, "2024-01-15T12:00:00"},
		{"jan31", pen.ID, "2024-01-31"},
		{"feb01", mug.ID, "2024-02-01T09:00:00"},
	} {
		id, err := l.RegisterSale(ctx, SaleRequest{ProductID: s.product, CustomerID: ana.ID, Quantity: 2, SoldAt: s.at})
		require.NoError(t, err)
		ids[s.key] = id
	}
	return l, ids
}

func saleIDs(rows []domain.SaleRecord) []int64 {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestListSalesNewestFirstWithNames(t *testing.T) {
	l, ids := seedPeriod(t)

	rows, err := l.ListSales(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{ids["feb01"], ids["jan31"], ids["jan15"], ids["jan01"]}, saleIDs(rows))

	assert.Equal(t, "Mug", rows[0].ProductName)
	assert.Equal(t, "Kitchen", rows[0].Category)
	assert.Equal(t, "ana", rows[0].CustomerName)
	assert.Equal(t, "16", rows[0].Total.String())
}

func TestListSalesEmpty(t *testing.T) {
	rows, err := NewLedger(testdb.New(t)).ListSales(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestListSalesByPeriodInclusiveBounds(t *testing.T) {
	ctx := context.Background()
	l, ids := seedPeriod(t)

	rows, err := l.ListSalesByPeriod(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, []int64{ids["jan31"], ids["jan15"], ids["jan01"]}, saleIDs(rows))

	rows, err = l.ListSalesByPeriod(ctx, "2024-01-15T12:00:00", "2024-01-15T12:00:00")
	require.NoError(t, err)
	assert.Equal(t, []int64{ids["jan15"]}, saleIDs(rows))

	rows, err = l.ListSalesByPeriod(ctx, "2024-01-15T12:00:01", "2024-02-01T08:59:59")
	require.NoError(t, err)
	assert.Equal(t, []int64{ids["jan31"]}, saleIDs(rows))

	rows, err = l.ListSalesByPeriod(ctx, "2023-01-01", "2023-12-31")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListSalesByPeriodInvertedRangeIsEmpty(t *testing.T) {
	l, _ := seedPeriod(t)
	rows, err := l.ListSalesByPeriod(context.Background(), "2024-02-01", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListSalesByPeriodRejectsMalformedBounds(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(testdb.New(t))

	_, err := l.ListSalesByPeriod(ctx, "01/01/2024", "2024-01-31")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = l.ListSalesByPeriod(ctx, "2024-01-01", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp(" 2024-02-29T23:59:59 ")
	require.NoError(t, err)
	assert.Equal(t, 29, ts.Day())
	assert.Equal(t, 59, ts.Second())

	ts, err = ParseTimestamp("2024-02-29")
	require.NoError(t, err)
	assert.Zero(t, ts.Hour())

	_, err = ParseTimestamp("2023-02-29")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopicSaleRegistered is published after a sale commits.
const TopicSaleRegistered = "sale:registered"

// SaleEvent describes a committed sale and the stock it left behind.
type SaleEvent struct {
	SaleID         int64
	ProductID      int64
	CustomerID     int64
	Quantity       int
	Total          decimal.Decimal
	RemainingStock int
	SoldAt         time.Time
}

// Publisher is satisfied by EventBus.Bus.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

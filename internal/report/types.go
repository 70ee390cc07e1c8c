package report

import "github.com/shopspring/decimal"

// Status tags used by StockStatus
const (
	StatusNeverSold     = "never_sold"
	StatusCriticalStock = "critical_stock"
)

// StockLevel product id, name and stock
type StockLevel struct {
	ID       int64  `json:"id" csv:"id"`
	Name     string `json:"name" csv:"name"`
	Category string `json:"category" csv:"category"`
	Stock    int    `json:"stock" csv:"stock"`
}

// ProductSales total units sold for a product
type ProductSales struct {
	ProductID int64  `json:"product_id" csv:"product_id"`
	Name      string `json:"name" csv:"name"`
	Category  string `json:"category" csv:"category"`
	TotalSold int64  `json:"total_sold" csv:"total_sold"`
}

// CategoryRevenue sales count and revenue for a category
type CategoryRevenue struct {
	Category   string          `json:"category" csv:"category"`
	SalesCount int64           `json:"sales_count" csv:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue" csv:"revenue"`
}

// ProductStatus product flagged as never sold and/or critical stock
type ProductStatus struct {
	ID            int64    `json:"id" csv:"id"`
	Name          string   `json:"name" csv:"name"`
	Stock         int      `json:"stock" csv:"stock"`
	NeverSold     bool     `json:"never_sold" csv:"never_sold"`
	CriticalStock bool     `json:"critical_stock" csv:"critical_stock"`
	Status        []string `json:"status" csv:"-"`
}

// HighStockItem product above the high stock threshold
type HighStockItem struct {
	ID       int64           `json:"id" csv:"id"`
	Name     string          `json:"name" csv:"name"`
	Category string          `json:"category" csv:"category"`
	Price    decimal.Decimal `json:"price" csv:"price"`
	Stock    int             `json:"stock" csv:"stock"`
}

// Snapshot every report computed from the same read transaction
type Snapshot struct {
	CriticalStock     []StockLevel      `json:"critical_stock"`
	TopSellers        []ProductSales    `json:"top_sellers"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
	NeverSold         []StockLevel      `json:"never_sold"`
	StockStatus       []ProductStatus   `json:"stock_status"`
	HighStock         []HighStockItem   `json:"high_stock"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

// StockState selects products by how much stock they have left.
type StockState string

const (
	InStock    StockState = "in-stock"
	OutOfStock StockState = "out-of-stock"
	LowStock   StockState = "low-stock"
)

// LowStockThreshold is the exclusive upper bound of the low-stock band.
const LowStockThreshold = 5

func (s StockState) Valid() bool {
	switch s {
	case "", InStock, OutOfStock, LowStock:
		return true
	}
	return false
}

func (s StockState) Matches(stock int) bool {
	switch s {
	case InStock:
		return stock > 0
	case OutOfStock:
		return stock <= 0
	case LowStock:
		return stock > 0 && stock < LowStockThreshold
	}
	return true
}

type CartLine struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// CartItem is a cart line joined against the live catalog. Orphaned lines
// reference a product that no longer exists; Product is nil for them.
type CartItem struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
	Product   *Product  `json:"product,omitempty"`
	Orphaned  bool      `json:"orphaned"`
}

type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	Country    string `json:"country"`
	PaymentRef string `json:"paymentRef"`
}

type LineItem struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID        string          `json:"id"`
	Customer  Customer        `json:"customer"`
	Items     []LineItem      `json:"items"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Subtotal sums the frozen line items; Total is always Subtotal plus Shipping.
func (o Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Subtotal)
	}
	return sum
}

func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

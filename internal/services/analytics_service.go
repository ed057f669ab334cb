package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// AnalyticsService builds the admin dashboard and sales reports.
type AnalyticsService struct {
	Catalog   *CatalogService
	Orders    *OrderService
	Inventory *InventoryService
}

func NewAnalyticsService(catalog *CatalogService, orders *OrderService, inv *InventoryService) *AnalyticsService {
	return &AnalyticsService{Catalog: catalog, Orders: orders, Inventory: inv}
}

const dashboardRecent = 5

type Dashboard struct {
	Products     int             `json:"products"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	LowStock     int             `json:"lowStock"`
	RecentOrders []domain.Order  `json:"recentOrders"`
}

func (s *AnalyticsService) Dashboard() (Dashboard, error) {
	products, err := s.Catalog.List(ProductFilter{})
	if err != nil {
		return Dashboard{}, err
	}
	low, err := s.Inventory.LowStockCount()
	if err != nil {
		return Dashboard{}, err
	}
	count, err := s.Orders.Count()
	if err != nil {
		return Dashboard{}, err
	}
	revenue, err := s.Orders.TotalRevenue()
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.Orders.RecentOrders(dashboardRecent)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{Products: len(products), Orders: count, Revenue: revenue, LowStock: low, RecentOrders: recent}, nil
}

// DateRange bounds are inclusive; zero means open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// RangeFor resolves a report preset relative to now, in now's location.
// custom uses from and to as calendar days and falls back to everything when
// either is missing.
func RangeFor(preset string, now, from, to time.Time) (DateRange, error) {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch preset {
	case "", "all":
		return DateRange{}, nil
	case "today":
		return DateRange{From: today, To: now}, nil
	case "yesterday":
		start := today.AddDate(0, 0, -1)
		return DateRange{From: start, To: endOfDay(start)}, nil
	case "last7days":
		return DateRange{From: now.AddDate(0, 0, -7), To: now}, nil
	case "last30days":
		return DateRange{From: now.AddDate(0, 0, -30), To: now}, nil
	case "thisMonth":
		return DateRange{From: time.Date(y, m, 1, 0, 0, 0, 0, loc), To: now}, nil
	case "lastMonth":
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return DateRange{From: first.AddDate(0, -1, 0), To: endOfDay(first.AddDate(0, 0, -1))}, nil
	case "custom":
		if from.IsZero() || to.IsZero() {
			return DateRange{}, nil
		}
		fy, fm, fd := from.In(loc).Date()
		start := time.Date(fy, fm, fd, 0, 0, 0, 0, loc)
		end := endOfDay(to.In(loc))
		if end.Before(start) {
			return DateRange{}, fmt.Errorf("%w: range ends before it starts", ErrValidation)
		}
		return DateRange{From: start, To: end}, nil
	}
	return DateRange{}, fmt.Errorf("%w: unknown range %q", ErrValidation, preset)
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

type SalesReport struct {
	Range             DateRange         `json:"range"`
	Revenue           decimal.Decimal   `json:"revenue"`
	Orders            int               `json:"orders"`
	Items             int               `json:"items"`
	AverageOrderValue decimal.Decimal   `json:"averageOrderValue"`
	ByCategory        CategoryBreakdown `json:"byCategory"`
	TopProducts       []ProductSales    `json:"topProducts"`
}

const reportTopProducts = 5

func (s *AnalyticsService) SalesReport(r DateRange) (SalesReport, error) {
	orders, err := s.Orders.List(OrderFilter{From: r.From, To: r.To})
	if err != nil {
		return SalesReport{}, err
	}
	byCat, err := s.Orders.RevenueByCategory(orders)
	if err != nil {
		return SalesReport{}, err
	}
	rep := SalesReport{
		Range:             r,
		Revenue:           SumTotals(orders),
		Orders:            len(orders),
		AverageOrderValue: decimal.Zero,
		ByCategory:        byCat,
		TopProducts:       s.Orders.TopProducts(reportTopProducts, orders),
	}
	for _, o := range orders {
		rep.Items += o.ItemCount()
	}
	if rep.Orders > 0 {
		rep.AverageOrderValue = rep.Revenue.Div(decimal.NewFromInt(int64(rep.Orders))).Round(2)
	}
	return rep, nil
}

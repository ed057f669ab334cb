package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/events"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

// ShippingCost is added to every order total.
var ShippingCost = decimal.RequireFromString("5.00")

type OrderService struct {
	mu      sync.Mutex
	Orders  *repos.OrderRepo
	Catalog *CatalogService
	Cart    *CartService
	Events  events.Publisher
	Now     func() time.Time
	NewID   func() string
}

func NewOrderService(orders *repos.OrderRepo, catalog *CatalogService, cart *CartService, pub events.Publisher) *OrderService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &OrderService{Orders: orders, Catalog: catalog, Cart: cart, Events: pub, Now: time.Now, NewID: uuid.NewString}
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *OrderService) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}

// CreateOrder snapshots every line against the current catalog and appends a
// pending order. Stock is re-checked against the summed quantity per product
// but never decremented. On any failure the ledger is left untouched.
func (s *OrderService) CreateOrder(customer domain.Customer, lines []domain.CartLine) (domain.Order, error) {
	s.mu.Lock()
	o, _, err := s.createLocked(customer, lines)
	s.mu.Unlock()
	if err != nil {
		return domain.Order{}, err
	}
	s.publishCreated(o)
	return o, nil
}

// createLocked appends the order and also returns the ledger as it was before.
func (s *OrderService) createLocked(customer domain.Customer, lines []domain.CartLine) (domain.Order, []domain.Order, error) {
	demand := map[string]int{}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return domain.Order{}, nil, fmt.Errorf("%w: quantity for %s must be positive", ErrValidation, l.ProductID)
		}
		demand[l.ProductID] += l.Quantity
	}

	items := make([]domain.LineItem, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		p, err := s.Catalog.Get(l.ProductID)
		if err != nil {
			return domain.Order{}, nil, err
		}
		if want := demand[p.ID]; want > p.Stock {
			return domain.Order{}, nil, fmt.Errorf("%w: %s has %d, order wants %d", ErrInsufficientStock, p.ID, p.Stock, want)
		}
		sub := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(sub)
		items = append(items, domain.LineItem{
			ProductID: p.ID, Title: p.Title, Price: p.Price, Quantity: l.Quantity, Subtotal: sub,
		})
	}

	all, err := s.Orders.All()
	if err != nil {
		return domain.Order{}, nil, err
	}
	id := s.newID()
	for indexOrder(all, id) >= 0 {
		id = uuid.NewString()
	}
	at := s.now()
	o := domain.Order{
		ID: id, Customer: customer, Items: items, Shipping: ShippingCost,
		Total: subtotal.Add(ShippingCost), Status: domain.StatusPending, CreatedAt: at, UpdatedAt: at,
	}
	if err := s.Orders.SaveAll(append(all[:len(all):len(all)], o)); err != nil {
		return domain.Order{}, nil, err
	}
	return o, all, nil
}

// Checkout turns the current cart into an order and empties the cart. If the
// cart cannot be cleared the order is withdrawn again and nothing changes.
func (s *OrderService) Checkout(customer domain.Customer) (domain.Order, error) {
	s.mu.Lock()
	o, err := s.checkoutLocked(customer)
	s.mu.Unlock()
	if err != nil {
		return domain.Order{}, err
	}
	s.publishCreated(o)
	return o, nil
}

func (s *OrderService) checkoutLocked(customer domain.Customer) (domain.Order, error) {
	lines, err := s.Cart.Lines()
	if err != nil {
		return domain.Order{}, err
	}
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("%w: cart is empty", ErrValidation)
	}
	o, before, err := s.createLocked(customer, lines)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.Cart.Clear(); err != nil {
		if rerr := s.Orders.SaveAll(before); rerr != nil {
			applog.Error(nil, "order.rollback.fail", rerr, map[string]any{"order_id": o.ID})
		}
		return domain.Order{}, fmt.Errorf("clear cart after order %s: %w", o.ID, err)
	}
	return o, nil
}

func (s *OrderService) publishCreated(o domain.Order) {
	s.publish(events.Event{Type: events.OrderCreated, OrderID: o.ID, Status: o.Status, Total: o.Total, OccurredAt: o.CreatedAt})
}

func (s *OrderService) UpdateStatus(id string, next domain.OrderStatus) (domain.Order, error) {
	if !next.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	s.mu.Lock()
	all, err := s.Orders.All()
	if err != nil {
		s.mu.Unlock()
		return domain.Order{}, err
	}
	i := indexOrder(all, id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	prev := all[i].Status
	if !prev.CanTransition(next) {
		s.mu.Unlock()
		return domain.Order{}, fmt.Errorf("%w: %s -> %s (allowed: %v)", ErrInvalidTransition, prev, next, prev.Next())
	}
	all[i].Status = next
	all[i].UpdatedAt = s.now()
	if err := s.Orders.SaveAll(all); err != nil {
		s.mu.Unlock()
		return domain.Order{}, err
	}
	o := all[i]
	s.mu.Unlock()

	s.publish(events.Event{Type: events.OrderStatusChanged, OrderID: o.ID, Status: next, Previous: prev, Total: o.Total, OccurredAt: o.UpdatedAt})
	return o, nil
}

func (s *OrderService) publish(e events.Event) {
	if err := s.Events.Publish(context.Background(), e); err != nil {
		applog.Error(nil, "events.publish.fail", err, map[string]any{"type": e.Type, "order_id": e.OrderID})
	}
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	all, err := s.all()
	if err != nil {
		return domain.Order{}, err
	}
	if i := indexOrder(all, id); i >= 0 {
		return all[i], nil
	}
	return domain.Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
}

func (s *OrderService) all() ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Orders.All()
}

// OrderFilter bounds are inclusive; a zero time leaves that side open.
type OrderFilter struct {
	From   time.Time
	To     time.Time
	Status domain.OrderStatus
	Search string
}

func (f OrderFilter) matches(o domain.Order) bool {
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && o.CreatedAt.After(f.To) {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(o.ID), q) &&
			!strings.Contains(strings.ToLower(o.Customer.Name), q) &&
			!strings.Contains(strings.ToLower(o.Customer.Email), q) {
			return false
		}
	}
	return true
}

// List returns matching orders in creation order.
func (s *OrderService) List(f OrderFilter) ([]domain.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, f.Status)
	}
	all, err := s.all()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(all))
	for _, o := range all {
		if f.matches(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *OrderService) Count() (int, error) {
	all, err := s.all()
	return len(all), err
}

// TotalRevenue sums every order total, cancelled orders included.
func (s *OrderService) TotalRevenue() (decimal.Decimal, error) {
	all, err := s.all()
	if err != nil {
		return decimal.Zero, err
	}
	return SumTotals(all), nil
}

func SumTotals(orders []domain.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// RecentOrders returns the n newest orders; equal timestamps keep the later-created first.
func (s *OrderService) RecentOrders(n int) ([]domain.Order, error) {
	all, err := s.all()
	if err != nil {
		return nil, err
	}
	slices.Reverse(all)
	slices.SortStableFunc(all, func(a, b domain.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all, nil
}

type ProductSales struct {
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopProducts ranks line items by quantity sold across orders. Ties keep the
// order in which products were first encountered.
func (s *OrderService) TopProducts(n int, orders []domain.Order) []ProductSales {
	var out []ProductSales
	pos := map[string]int{}
	for _, o := range orders {
		for _, it := range o.Items {
			i, ok := pos[it.ProductID]
			if !ok {
				i = len(out)
				pos[it.ProductID] = i
				out = append(out, ProductSales{ProductID: it.ProductID, Title: it.Title, Revenue: decimal.Zero})
			}
			out[i].Quantity += it.Quantity
			out[i].Revenue = out[i].Revenue.Add(it.Subtotal)
		}
	}
	slices.SortStableFunc(out, func(a, b ProductSales) int { return cmp.Compare(b.Quantity, a.Quantity) })
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	if out == nil {
		out = []ProductSales{}
	}
	return out
}

type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type CategoryBreakdown struct {
	Categories []CategoryRevenue `json:"categories"`
	// Orphaned is revenue from line items whose product left the catalog.
	Orphaned decimal.Decimal `json:"orphaned"`
}

// RevenueByCategory resolves each line item's category from the live catalog.
// Every catalog category is listed, unsold ones at zero, highest revenue first.
func (s *OrderService) RevenueByCategory(orders []domain.Order) (CategoryBreakdown, error) {
	products, err := s.Catalog.List(ProductFilter{})
	if err != nil {
		return CategoryBreakdown{}, err
	}
	category := make(map[string]string, len(products))
	pos := map[string]int{}
	rows := []CategoryRevenue{}
	for _, p := range products {
		category[p.ID] = p.Category
		if _, ok := pos[p.Category]; !ok {
			pos[p.Category] = len(rows)
			rows = append(rows, CategoryRevenue{Category: p.Category, Revenue: decimal.Zero})
		}
	}
	orphaned := decimal.Zero
	for _, o := range orders {
		for _, it := range o.Items {
			c, ok := category[it.ProductID]
			if !ok {
				orphaned = orphaned.Add(it.Subtotal)
				continue
			}
			rows[pos[c]].Revenue = rows[pos[c]].Revenue.Add(it.Subtotal)
		}
	}
	slices.SortStableFunc(rows, func(a, b CategoryRevenue) int { return b.Revenue.Cmp(a.Revenue) })
	return CategoryBreakdown{Categories: rows, Orphaned: orphaned}, nil
}

func indexOrder(all []domain.Order, id string) int {
	for i, o := range all {
		if o.ID == id {
			return i
		}
	}
	return -1
}


package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

// CartService owns the single shopper's cart. Prices and stock are always
// read from the catalog, never cached on the line.
type CartService struct {
	mu      sync.Mutex
	Carts   *repos.CartRepo
	Catalog *CatalogService
	Now     func() time.Time
}

func NewCartService(carts *repos.CartRepo, catalog *CatalogService) *CartService {
	return &CartService{Carts: carts, Catalog: catalog, Now: time.Now}
}

func (s *CartService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Add merges qty into the product's line, or appends one. qty must be positive.
func (s *CartService) Add(productID string, qty int) ([]domain.CartLine, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, qty)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	lines, err := s.Carts.Lines()
	if err != nil {
		return nil, err
	}
	i := indexLine(lines, productID)
	existing := 0
	if i >= 0 {
		existing = lines[i].Quantity
	}
	if existing+qty > p.Stock {
		return nil, fmt.Errorf("%w: %s has %d, cart wants %d", ErrInsufficientStock, productID, p.Stock, existing+qty)
	}
	if i >= 0 {
		lines[i].Quantity += qty
	} else {
		lines = append(lines, domain.CartLine{ProductID: productID, Quantity: qty, AddedAt: s.now().UTC()})
	}
	if err := s.Carts.Save(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(productID string, qty int) ([]domain.CartLine, error) {
	if qty <= 0 {
		return s.Remove(productID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.Carts.Lines()
	if err != nil {
		return nil, err
	}
	i := indexLine(lines, productID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s is not in the cart", ErrNotFound, productID)
	}
	p, err := s.Catalog.Get(productID)
	if err != nil {
		return nil, err
	}
	if qty > p.Stock {
		return nil, fmt.Errorf("%w: %s has %d, cart wants %d", ErrInsufficientStock, productID, p.Stock, qty)
	}
	lines[i].Quantity = qty
	if err := s.Carts.Save(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) Remove(productID string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.Carts.Lines()
	if err != nil {
		return nil, err
	}
	i := indexLine(lines, productID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s is not in the cart", ErrNotFound, productID)
	}
	lines = append(lines[:i:i], lines[i+1:]...)
	if err := s.Carts.Save(lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *CartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Carts.Clear()
}

func (s *CartService) Lines() ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Carts.Lines()
}

// Items joins every line against the catalog at call time. Lines whose
// product was deleted come back flagged Orphaned with a nil Product.
func (s *CartService) Items() ([]domain.CartItem, error) {
	lines, err := s.Lines()
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(lines))
	for _, l := range lines {
		it := domain.CartItem{ProductID: l.ProductID, Quantity: l.Quantity, AddedAt: l.AddedAt}
		p, err := s.Catalog.Get(l.ProductID)
		switch {
		case errors.Is(err, ErrNotFound):
			it.Orphaned = true
		case err != nil:
			return nil, err
		default:
			it.Product = &p
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *CartService) Count() (int, error) {
	lines, err := s.Lines()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n, nil
}

// Total prices the joined view; orphaned lines contribute nothing.
func (s *CartService) Total() (decimal.Decimal, error) {
	items, err := s.Items()
	if err != nil {
		return decimal.Zero, err
	}
	return itemsTotal(items), nil
}

type CartView struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

func (s *CartService) View() (CartView, error) {
	items, err := s.Items()
	if err != nil {
		return CartView{}, err
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return CartView{Items: items, Count: n, Total: itemsTotal(items)}, nil
}

func itemsTotal(items []domain.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Product != nil {
			total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return total
}

func indexLine(lines []domain.CartLine, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CatalogService struct {
	mu    sync.Mutex
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// ProductFilter fields are optional and AND-combined. Price bounds are inclusive.
type ProductFilter struct {
	Category string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Search   string
	Stock    domain.StockState
}

func (f ProductFilter) matches(p domain.Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	return f.Stock.Matches(p.Stock)
}

type ProductInput struct {
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrValidation)
	case in.Rating < 0 || in.Rating > 5:
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
	}
	return nil
}

func (in ProductInput) product(id string) domain.Product {
	return domain.Product{
		ID: id, Title: in.Title, Category: in.Category, Price: in.Price, Stock: in.Stock,
		Rating: in.Rating, Description: in.Description, Image: in.Image,
	}
}

func (s *CatalogService) List(f ProductFilter) ([]domain.Product, error) {
	if !f.Stock.Valid() {
		return nil, fmt.Errorf("%w: unknown stock state %q", ErrValidation, f.Stock)
	}
	if f.PriceMin != nil && f.PriceMax != nil && f.PriceMin.GreaterThan(*f.PriceMax) {
		return nil, fmt.Errorf("%w: priceMin above priceMax", ErrValidation)
	}
	s.mu.Lock()
	all, err := s.Prods.All()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	s.mu.Lock()
	all, err := s.Prods.All()
	s.mu.Unlock()
	if err != nil {
		return domain.Product{}, err
	}
	if i := indexProduct(all, id); i >= 0 {
		return all[i], nil
	}
	return domain.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
}

// Categories lists distinct categories in the order they first appear.
func (s *CatalogService) Categories() ([]string, error) {
	s.mu.Lock()
	all, err := s.Prods.All()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range all {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (s *CatalogService) Create(in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Prods.All()
	if err != nil {
		return domain.Product{}, err
	}
	id := uuid.NewString()
	for indexProduct(all, id) >= 0 {
		id = uuid.NewString()
	}
	p := in.product(id)
	if err := s.Prods.SaveAll(append(all, p)); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) Update(id string, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Prods.All()
	if err != nil {
		return domain.Product{}, err
	}
	i := indexProduct(all, id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	all[i] = in.product(id)
	if err := s.Prods.SaveAll(all); err != nil {
		return domain.Product{}, err
	}
	return all[i], nil
}

// Delete removes a product. Orders keep their own snapshots, so nothing else changes.
func (s *CatalogService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Prods.All()
	if err != nil {
		return err
	}
	i := indexProduct(all, id)
	if i < 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return s.Prods.SaveAll(append(all[:i:i], all[i+1:]...))
}

func indexProduct(all []domain.Product, id string) int {
	for i, p := range all {
		if p.ID == id {
			return i
		}
	}
	return -1
}

package services

import "storefront/internal/domain"

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(catalog *CatalogService) *InventoryService {
	return &InventoryService{Catalog: catalog}
}

// CheckAvailability converts stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(productID string) (domain.Availability, error) {
	p, err := s.Catalog.Get(productID)
	if err != nil {
		return domain.Availability{}, err
	}
	status := "OUT_OF_STOCK"
	switch {
	case p.Stock >= domain.LowStockThreshold:
		status = "IN_STOCK"
	case p.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: max(p.Stock, 0)}, nil
}

// LowStockCount counts products below the low-stock threshold, sold-out ones included.
func (s *InventoryService) LowStockCount() (int, error) {
	all, err := s.Catalog.List(ProductFilter{})
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range all {
		if p.Stock < domain.LowStockThreshold {
			n++
		}
	}
	return n, nil
}

package repos

import "storefront/internal/domain"

type ProductRepo struct{ store Store }

func NewProductRepo(s Store) *ProductRepo { return &ProductRepo{store: s} }

// All returns the catalog in insertion order.
func (r *ProductRepo) All() ([]domain.Product, error) {
	return loadList[domain.Product](r.store, KeyProducts)
}

func (r *ProductRepo) SaveAll(products []domain.Product) error {
	return saveList(r.store, KeyProducts, products)
}

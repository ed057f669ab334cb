package repos

import "storefront/internal/domain"

type CartRepo struct{ store Store }

func NewCartRepo(s Store) *CartRepo { return &CartRepo{store: s} }

func (r *CartRepo) Lines() ([]domain.CartLine, error) {
	return loadList[domain.CartLine](r.store, KeyCart)
}

func (r *CartRepo) Save(lines []domain.CartLine) error {
	return saveList(r.store, KeyCart, lines)
}

// Clear drops the cart key; a missing key reads back as an empty cart.
func (r *CartRepo) Clear() error {
	return r.store.Remove(KeyCart)
}

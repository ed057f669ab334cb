package repos

import "storefront/internal/domain"

type OrderRepo struct{ store Store }

func NewOrderRepo(s Store) *OrderRepo { return &OrderRepo{store: s} }

// All returns orders in creation order.
func (r *OrderRepo) All() ([]domain.Order, error) {
	return loadList[domain.Order](r.store, KeyOrders)
}

func (r *OrderRepo) SaveAll(orders []domain.Order) error {
	return saveList(r.store, KeyOrders, orders)
}

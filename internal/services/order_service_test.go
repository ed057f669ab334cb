package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func Test_Order_StockCappedCartThenOrderTotal(t *testing.T) {
	e := newEnv(t)
	p, err := e.catalog.Create(services.ProductInput{Title: "p1", Category: "x", Price: money("10.00"), Stock: 3})
	require.NoError(t, err)

	_, err = e.cart.Add(p.ID, 2)
	require.NoError(t, err)
	_, err = e.cart.UpdateQuantity(p.ID, 5)
	require.ErrorIs(t, err, services.ErrInsufficientStock)
	lines, err := e.cart.Lines()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, 2, lines[0].Quantity)

	o, err := e.orders.CreateOrder(customer(), lines)
	require.NoError(t, err)
	assert.True(t, money("25.00").Equal(o.Total), "got %s", o.Total)
	assert.Equal(t, domain.StatusPending, o.Status)
}

func Test_Order_TotalsForZeroOneMany(t *testing.T) {
	e := newEnv(t)
	a := e.product(t, "A", "x", "1.25", 10)
	b := e.product(t, "B", "y", "3.10", 10)
	c := e.product(t, "C", "y", "0.99", 10)

	tests := []struct {
		name  string
		lines []domain.CartLine
		want  string
	}{
		{name: "empty", lines: nil, want: "5.00"},
		{name: "one", lines: []domain.CartLine{{ProductID: a.ID, Quantity: 4}}, want: "10.00"},
		{name: "many", lines: []domain.CartLine{
			{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 2}, {ProductID: c.ID, Quantity: 3},
		}, want: "15.42"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, err := e.orders.CreateOrder(customer(), tc.lines)
			require.NoError(t, err)
			assert.True(t, money(tc.want).Equal(o.Total), "got %s", o.Total)
			assert.True(t, o.Subtotal().Add(services.ShippingCost).Equal(o.Total))
			for _, it := range o.Items {
				assert.True(t, it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))).Equal(it.Subtotal))
			}
		})
	}
}

func Test_Order_StockRevalidatedAndLedgerUntouched(t *testing.T) {
	e := newEnv(t)
	soldOut := e.product(t, "Sold out", "x", "4", 0)
	fine := e.product(t, "Fine", "x", "4", 3)

	_, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: fine.ID, Quantity: 1}, {ProductID: soldOut.ID, Quantity: 1}})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)

	_, err = e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: "vanished", Quantity: 1}})
	assert.ErrorIs(t, err, services.ErrNotFound)

	n, err := e.orders.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, e.pub.types())
}

func Test_Order_StockDropsAfterAdd(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "A", "x", "4", 3)
	_, err := e.cart.Add(p.ID, 3)
	require.NoError(t, err)
	_, err = e.catalog.Update(p.ID, services.ProductInput{Title: "A", Category: "x", Price: money("4"), Stock: 1})
	require.NoError(t, err)

	_, err = e.orders.Checkout(customer())
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	n, err := e.cart.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n, "failed checkout keeps the cart")
}

func Test_Order_CheckoutClearsCartAndKeepsStock(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "A", "x", "2.50", 4)
	_, err := e.cart.Add(p.ID, 2)
	require.NoError(t, err)

	o, err := e.orders.Checkout(customer())
	require.NoError(t, err)
	assert.True(t, money("10.00").Equal(o.Total))
	assert.Equal(t, "Ada Lovelace", o.Customer.Name)

	n, err := e.cart.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	after, err := e.catalog.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, after.Stock, "orders never decrement stock")
	assert.Equal(t, []string{events.OrderCreated}, e.pub.types())

	_, err = e.orders.Checkout(customer())
	assert.ErrorIs(t, err, services.ErrValidation)
}

func Test_Order_SnapshotsSurviveCatalogChanges(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "First edition", "x", "7.00", 5)
	o, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	_, err = e.catalog.Update(p.ID, services.ProductInput{Title: "Renamed", Category: "x", Price: money("99"), Stock: 5})
	require.NoError(t, err)
	require.NoError(t, e.catalog.Delete(p.ID))

	got, err := e.orders.Get(o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "First edition", got.Items[0].Title)
	assert.True(t, money("7.00").Equal(got.Items[0].Price))
	assert.True(t, money("12.00").Equal(got.Total))
}

func Test_Order_StatusTransitions(t *testing.T) {
	e := newEnv(t)
	mk := func() domain.Order {
		o, err := e.orders.CreateOrder(customer(), nil)
		require.NoError(t, err)
		return o
	}

	o := mk()
	for _, next := range []domain.OrderStatus{domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered} {
		up, err := e.orders.UpdateStatus(o.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, up.Status)
	}
	_, err := e.orders.UpdateStatus(o.ID, domain.StatusPending)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = e.orders.UpdateStatus(o.ID, domain.StatusCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	fromPending := mk()
	_, err = e.orders.UpdateStatus(fromPending.ID, domain.StatusCancelled)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(fromPending.ID, domain.StatusProcessing)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	fromProcessing := mk()
	_, err = e.orders.UpdateStatus(fromProcessing.ID, domain.StatusProcessing)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(fromProcessing.ID, domain.StatusCancelled)
	require.NoError(t, err)

	shipped := mk()
	_, err = e.orders.UpdateStatus(shipped.ID, domain.StatusShipped)
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "no skipping")
	_, err = e.orders.UpdateStatus(shipped.ID, domain.StatusProcessing)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(shipped.ID, domain.StatusProcessing)
	assert.ErrorIs(t, err, services.ErrInvalidTransition, "same state is not a transition")
	_, err = e.orders.UpdateStatus(shipped.ID, domain.StatusShipped)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(shipped.ID, domain.StatusCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = e.orders.UpdateStatus("missing", domain.StatusProcessing)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = e.orders.UpdateStatus(o.ID, "lost")
	assert.ErrorIs(t, err, services.ErrValidation)

	e.pub.mu.Lock()
	last := e.pub.events[len(e.pub.events)-1]
	e.pub.mu.Unlock()
	assert.Equal(t, events.OrderStatusChanged, last.Type)
	assert.Equal(t, domain.StatusShipped, last.Status)
	assert.Equal(t, domain.StatusProcessing, last.Previous)
}

func Test_Order_ListFilters(t *testing.T) {
	e := newEnv(t)
	first, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)
	second, err := e.orders.CreateOrder(domain.Customer{Name: "Grace Hopper", Email: "grace@navy.mil"}, nil)
	require.NoError(t, err)
	third, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(second.ID, domain.StatusCancelled)
	require.NoError(t, err)

	got, err := e.orders.List(services.OrderFilter{From: second.CreatedAt, To: third.CreatedAt})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID, third.ID}, orderIDs(got), "bounds are inclusive")

	got, err = e.orders.List(services.OrderFilter{To: first.CreatedAt})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID}, orderIDs(got))

	got, err = e.orders.List(services.OrderFilter{Status: domain.StatusCancelled})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, orderIDs(got))

	got, err = e.orders.List(services.OrderFilter{Search: "GRACE"})
	require.NoError(t, err)
	assert.Equal(t, []string{second.ID}, orderIDs(got))

	got, err = e.orders.List(services.OrderFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, orderIDs(got))

	_, err = e.orders.List(services.OrderFilter{Status: "weird"})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func Test_Order_Aggregates(t *testing.T) {
	e := newEnv(t)
	a := e.product(t, "A", "home", "10", 50)
	b := e.product(t, "B", "books", "1", 50)
	c := e.product(t, "C", "home", "2", 50)
	e.product(t, "D", "garden", "3", 50)

	o1, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: a.ID, Quantity: 1}, {ProductID: b.ID, Quantity: 3}})
	require.NoError(t, err)
	o2, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: c.ID, Quantity: 3}, {ProductID: a.ID, Quantity: 2}})
	require.NoError(t, err)
	o3, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: b.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = e.orders.UpdateStatus(o3.ID, domain.StatusCancelled)
	require.NoError(t, err)

	n, err := e.orders.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rev, err := e.orders.TotalRevenue()
	require.NoError(t, err)
	// 18 + 31 + 6; cancelled orders still count
	assert.True(t, money("55").Equal(rev), "got %s", rev)

	recent, err := e.orders.RecentOrders(2)
	require.NoError(t, err)
	assert.Equal(t, []string{o3.ID, o2.ID}, orderIDs(recent))

	all, err := e.orders.List(services.OrderFilter{})
	require.NoError(t, err)
	top := e.orders.TopProducts(3, all)
	require.Len(t, top, 3)
	// a=3, b=4, c=3: b first, then a before c by first encounter
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, []string{top[0].ProductID, top[1].ProductID, top[2].ProductID})
	assert.Equal(t, 4, top[0].Quantity)
	assert.True(t, money("30").Equal(top[1].Revenue))

	require.NoError(t, e.catalog.Delete(b.ID))
	breakdown, err := e.orders.RevenueByCategory([]domain.Order{o1, o2})
	require.NoError(t, err)
	require.Len(t, breakdown.Categories, 2)
	assert.Equal(t, "home", breakdown.Categories[0].Category)
	assert.True(t, money("36").Equal(breakdown.Categories[0].Revenue))
	assert.Equal(t, "garden", breakdown.Categories[1].Category)
	assert.True(t, breakdown.Categories[1].Revenue.IsZero())
	assert.True(t, money("3").Equal(breakdown.Orphaned))
}

func Test_Order_RecentOrdersTieBreak(t *testing.T) {
	e := newEnv(t)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e.orders.Now = func() time.Time { return fixed }
	a, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)
	b, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)

	recent, err := e.orders.RecentOrders(10)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID}, orderIDs(recent))
}

func Test_Order_IDsUnique(t *testing.T) {
	e := newEnv(t)
	e.orders.NewID = func() string { return "fixed" }
	a, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)
	b, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func orderIDs(orders []domain.Order) []string {
	out := []string{}
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func Test_Order_DuplicateLinesShareStock(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "A", "x", "10", 3)

	_, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: p.ID, Quantity: 2}, {ProductID: p.ID, Quantity: 2}})
	assert.ErrorIs(t, err, services.ErrInsufficientStock)
	n, err := e.orders.Count()
	require.NoError(t, err)
	assert.Zero(t, n)

	o, err := e.orders.CreateOrder(customer(), []domain.CartLine{{ProductID: p.ID, Quantity: 1}, {ProductID: p.ID, Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, o.ItemCount())
	assert.True(t, money("35").Equal(o.Total), "got %s", o.Total)
}

func Test_Order_CheckoutRollsBackWhenCartClearFails(t *testing.T) {
	mem := repos.NewMemoryStore()
	e := newEnvOver(t, mem, brokenRemove{MemoryStore: mem, key: repos.KeyCart})
	p := e.product(t, "A", "x", "4", 5)
	_, err := e.cart.Add(p.ID, 2)
	require.NoError(t, err)

	_, err = e.orders.Checkout(customer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	n, err := e.orders.Count()
	require.NoError(t, err)
	assert.Zero(t, n, "order withdrawn when the cart could not be cleared")
	count, err := e.cart.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Empty(t, e.pub.types(), "nothing published for a withdrawn order")
}

func Test_Order_InvalidTransitionNamesAllowedMoves(t *testing.T) {
	e := newEnv(t)
	o, err := e.orders.CreateOrder(customer(), nil)
	require.NoError(t, err)

	_, err = e.orders.UpdateStatus(o.ID, domain.StatusDelivered)
	require.ErrorIs(t, err, services.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "allowed: [processing cancelled]")
}

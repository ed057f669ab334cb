package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/repos"
	"storefront/internal/services"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// clock hands out strictly increasing timestamps one minute apart.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

type env struct {
	store     *repos.MemoryStore
	catalog   *services.CatalogService
	inventory *services.InventoryService
	cart      *services.CartService
	orders    *services.OrderService
	auth      *services.AuthService
	analytics *services.AnalyticsService
	pub       *recorder
	clock     *clock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := repos.NewMemoryStore()
	return newEnvOver(t, mem, mem)
}

// newEnvOver wires the services over store, which usually wraps mem.
func newEnvOver(t *testing.T, mem *repos.MemoryStore, store repos.Store) *env {
	t.Helper()
	clk := &clock{now: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)}
	pub := &recorder{}

	catalog := services.NewCatalogService(repos.NewProductRepo(store))
	inv := services.NewInventoryService(catalog)
	cart := services.NewCartService(repos.NewCartRepo(store), catalog)
	cart.Now = clk.Now
	orders := services.NewOrderService(repos.NewOrderRepo(store), catalog, cart, pub)
	orders.Now = clk.Now
	auth := services.NewAuthService(repos.NewUserRepo(store), repos.NewSessionRepo(store))
	auth.HashCost = bcrypt.MinCost
	auth.Now = clk.Now

	return &env{
		store: mem, catalog: catalog, inventory: inv, cart: cart, orders: orders, auth: auth,
		analytics: services.NewAnalyticsService(catalog, orders, inv), pub: pub, clock: clk,
	}
}

// brokenRemove fails every Remove of one key and passes everything else through.
type brokenRemove struct {
	*repos.MemoryStore
	key string
}

func (b brokenRemove) Remove(key string) error {
	if key == b.key {
		return errors.New("disk full")
	}
	return b.MemoryStore.Remove(key)
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (e *env) product(t *testing.T, title, category, price string, stock int) domain.Product {
	t.Helper()
	p, err := e.catalog.Create(services.ProductInput{
		Title: title, Category: category, Price: money(price), Stock: stock, Rating: 4,
	})
	require.NoError(t, err)
	return p
}

func customer() domain.Customer {
	return domain.Customer{Name: "Ada Lovelace", Email: "ada@example.com", Address: "1 Analytical St", City: "London", Zip: "N1", Country: "UK", PaymentRef: "card-****4242"}
}

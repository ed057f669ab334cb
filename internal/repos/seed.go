package repos

import (
	"log"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// SeedCatalog writes a demo catalog when no products key exists yet. An
// existing key, even an empty list, is left alone.
func SeedCatalog(s Store) error {
	if _, ok, err := s.Get(KeyProducts); err != nil || ok {
		return err
	}
	log.Println("[seed] inserting demo catalog")
	return NewProductRepo(s).SaveAll(demoCatalog())
}

func demoCatalog() []domain.Product {
	mk := func(id, title, category, price string, stock int, rating float64, desc string) domain.Product {
		return domain.Product{
			ID: id, Title: title, Category: category, Price: decimal.RequireFromString(price),
			Stock: stock, Rating: rating, Description: desc, Image: "images/" + id + ".jpg",
		}
	}
	return []domain.Product{
		mk("p-headphones", "Wireless Headphones", "electronics", "59.99", 12, 4.5, "Over-ear bluetooth headphones with 30h battery."),
		mk("p-keyboard", "Mechanical Keyboard", "electronics", "89.00", 3, 4.7, "Tenkeyless keyboard with brown switches."),
		mk("p-lamp", "Desk Lamp", "home", "24.50", 0, 3.9, "Adjustable LED lamp with warm and cold modes."),
		mk("p-mug", "Ceramic Mug", "home", "9.99", 40, 4.2, "350ml stoneware mug, dishwasher safe."),
		mk("p-hoodie", "Cotton Hoodie", "clothing", "39.00", 7, 4.4, "Heavyweight hoodie in organic cotton."),
		mk("p-novel", "Paperback Novel", "books", "14.25", 2, 4.8, "Award-winning paperback fiction."),
	}
}

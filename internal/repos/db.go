package repos

import (
	"log"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Open picks a backend from dsn: "memory" keeps everything in process,
// postgres:// URLs use pgx, anything else is a sqlite file (or ":memory:").
func Open(dsn string) (Store, error) {
	switch {
	case dsn == "memory":
		return NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := openDB("pgx", dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, "postgres"), nil
	default:
		db, err := openDB("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// a sqlite :memory: database lives per connection
		db.SetMaxOpenConns(1)
		return NewSQLStore(db, "sqlite3"), nil
	}
}

func openDB(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	log.Printf("[store] %s backend ready", driver)
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv(
  store_key  TEXT PRIMARY KEY,
  payload    TEXT NOT NULL,
  updated_at TEXT
)`)
	return err
}

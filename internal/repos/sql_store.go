package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"
)

const (
	tableKV      = "kv"
	colKey       = "store_key"
	colPayload   = "payload"
	colUpdatedAt = "updated_at"

	queryTimeout = 5 * time.Second
)

// SQLStore keeps every blob as one row of the kv table.
type SQLStore struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

func NewSQLStore(db *sqlx.DB, dialect string) *SQLStore {
	return &SQLStore{db: db, dialect: goqu.Dialect(dialect)}
}

func (s *SQLStore) DB() *sqlx.DB { return s.db }

func (s *SQLStore) Get(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query, args, err := s.dialect.From(tableKV).Prepared(true).
		Select(colPayload).
		Where(goqu.C(colKey).Eq(key)).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build select: %w", err)
	}
	var payload string
	if err := s.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(payload), true, nil
}

// Set replaces the row for key inside one transaction.
func (s *SQLStore) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	del, delArgs, err := s.dialect.Delete(tableKV).Prepared(true).
		Where(goqu.C(colKey).Eq(key)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	ins, insArgs, err := s.dialect.Insert(tableKV).Prepared(true).
		Rows(goqu.Record{
			colKey:       key,
			colPayload:   string(value),
			colUpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, ins, insArgs...); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	query, args, err := s.dialect.Delete(tableKV).Prepared(true).
		Where(goqu.C(colKey).Eq(key)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

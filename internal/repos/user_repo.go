package repos

import "storefront/internal/domain"

type UserRepo struct{ store Store }

func NewUserRepo(s Store) *UserRepo { return &UserRepo{store: s} }

func (r *UserRepo) All() ([]domain.Account, error) {
	return loadList[domain.Account](r.store, KeyUsers)
}

func (r *UserRepo) SaveAll(accounts []domain.Account) error {
	return saveList(r.store, KeyUsers, accounts)
}

// SessionRepo holds the single process-wide session record.
type SessionRepo struct{ store Store }

func NewSessionRepo(s Store) *SessionRepo { return &SessionRepo{store: s} }

func (r *SessionRepo) Get() (domain.Session, bool, error) {
	return loadRecord[domain.Session](r.store, KeySession)
}

func (r *SessionRepo) Set(s domain.Session) error {
	return saveRecord(r.store, KeySession, s)
}

func (r *SessionRepo) Clear() error {
	return r.store.Remove(KeySession)
}

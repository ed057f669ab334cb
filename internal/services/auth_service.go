package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

// AuthService is the account directory plus the single process-wide session.
type AuthService struct {
	mu       sync.Mutex
	Users    *repos.UserRepo
	Sessions *repos.SessionRepo
	HashCost int
	Now      func() time.Time
}

func NewAuthService(users *repos.UserRepo, sessions *repos.SessionRepo) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, HashCost: bcrypt.DefaultCost, Now: time.Now}
}

func (s *AuthService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

type AccountInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	StudentID string `json:"studentId"`
}

// Register stores a new account without logging it in. Email is unique, and
// so is StudentID when given.
func (s *AuthService) Register(in AccountInput) (domain.Account, error) {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return domain.Account{}, fmt.Errorf("%w: name is required", ErrValidation)
	case strings.TrimSpace(in.Email) == "":
		return domain.Account{}, fmt.Errorf("%w: email is required", ErrValidation)
	case in.Password == "":
		return domain.Account{}, fmt.Errorf("%w: password is required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Users.All()
	if err != nil {
		return domain.Account{}, err
	}
	for _, a := range all {
		if a.Email == in.Email {
			return domain.Account{}, fmt.Errorf("%w: email %s", ErrConflict, in.Email)
		}
		if in.StudentID != "" && a.StudentID == in.StudentID {
			return domain.Account{}, fmt.Errorf("%w: student id %s", ErrConflict, in.StudentID)
		}
	}

	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), cost)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	acct := domain.Account{
		Name: in.Name, Email: in.Email, PasswordHash: string(hash),
		StudentID: in.StudentID, CreatedAt: s.now(),
	}
	if err := s.Users.SaveAll(append(all, acct)); err != nil {
		return domain.Account{}, err
	}
	return acct, nil
}

// Authenticate replaces any existing session on success.
func (s *AuthService) Authenticate(email, password string) (domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Users.All()
	if err != nil {
		return domain.Session{}, err
	}
	for _, a := range all {
		if a.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
			return domain.Session{}, ErrAuth
		}
		sess := a.Session(s.now())
		if err := s.Sessions.Set(sess); err != nil {
			return domain.Session{}, err
		}
		return sess, nil
	}
	return domain.Session{}, ErrAuth
}

func (s *AuthService) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Sessions.Clear()
}

func (s *AuthService) CurrentSession() (domain.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Sessions.Get()
}

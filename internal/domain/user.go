package domain

import "time"

type Account struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	StudentID    string    `json:"studentId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is the projection of the logged-in account; it never carries the credential.
type Session struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	StudentID string    `json:"studentId,omitempty"`
	LoginTime time.Time `json:"loginTime"`
}

func (a Account) Session(at time.Time) Session {
	return Session{Name: a.Name, Email: a.Email, StudentID: a.StudentID, LoginTime: at}
}

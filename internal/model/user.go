package model

import "time"

// User represents an account as stored in the `users` table.  The json tags
// are omitted because handlers expose users through their own DTOs.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash (bcrypt)
	Admin        bool      // users.admin
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

func (u *User) EntityKind() Kind { return KindUser }
func (u *User) EntityID() uint64 { return u.ID }
func (u *User) IsNil() bool { return u == nil }

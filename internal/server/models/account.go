// Package models contains the persisted data structures of the server.
package models

import "time"

// Account is the persisted identity record.
//
// PasswordHash is empty for accounts created through federated login.
// GoogleID is empty for password-only accounts. The service guarantees at
// least one of the two is present; the store only enforces uniqueness.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	GoogleID     string
	Name         string
	AvatarURL    string
	CreatedAt    time.Time
}

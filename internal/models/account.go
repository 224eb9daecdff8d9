// Package models defines the entities persisted by the trading server.
package models

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Account is a registered login identity keyed by email address.
type Account struct {
	Email              string `badgerhold:"key"`
	PasswordHash       string
	Active             bool
	Admin              bool
	AdminRequestedAt   *time.Time
	AdminGrantedAt     *time.Time
	AdminGrantedBy     string
	DeactivatedAt      *time.Time
	DeactivationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NormalizeEmail lowercases and trims an email address for use as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that the address parses as an RFC 5322 mailbox.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}

// AccountTransaction is an append-only audit record of a fund movement.
// Failed operations are never recorded.
type AccountTransaction struct {
	ID          string `badgerhold:"key"`
	Email       string `badgerhold:"index"`
	Currency    string
	Description string
	CreatedAt   time.Time
}

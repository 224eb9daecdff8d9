package models

import "time"

// BankAccount is an external bank account linked to a trading account.
// Deactivation clears InUse; rows are never deleted outside a reset so
// historical transfers keep a valid reference.
type BankAccount struct {
	ID            string `badgerhold:"key"`
	Email         string `badgerhold:"index"`
	Currency      string
	BankName      string
	AccountNumber string
	InUse         bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BankAccountTransaction is an append-only audit record of a transfer
// out to a linked bank account.
type BankAccountTransaction struct {
	ID            string `badgerhold:"key"`
	Email         string `badgerhold:"index"`
	BankAccountID string
	Currency      string
	Description   string
	CreatedAt     time.Time
}

package engine

import (
	"github.com/google/uuid"
)

// Account is the persistent per-player state that survives across deals:
// identity and chip stack. Seat is the index into the table's seating
// order and is reassigned when players are removed.
type Account struct {
	ID    string
	Name  string
	Chips int
	Seat  int
}

// NewAccount creates an account with a fresh ID and the given buy-in.
func NewAccount(name string, chips int) *Account {
	return &Account{
		ID:    uuid.NewString(),
		Name:  name,
		Chips: chips,
	}
}

/*
store.go - Persistence interface for contracts and rosters

PURPOSE:
  Defines the interface between the contract service and the database.
  Different implementations can use SQLite or in-memory storage.

ROSTER WRITES:
  The roster is always written whole. ReplaceMusicians deletes the
  existing side musicians and inserts the new list atomically, matching
  how the engagement form is submitted: the client sends the complete
  roster every time, never a diff.

OWNERSHIP:
  The store is ownership-blind: it fetches by ID and the service checks
  UserID. Listing is the exception, it filters by owner in the query.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - store/memory: In-memory for tests

SEE ALSO:
  - service.go: The consumer of this interface
*/
package contract

import "context"

// Store handles persistence of contracts and their rosters.
type Store interface {
	// CreateContract persists a new contract.
	CreateContract(ctx context.Context, c *Contract) error

	// GetContract returns one contract by ID, or ErrNotFound.
	GetContract(ctx context.Context, id string) (*Contract, error)

	// ListContracts returns a user's contracts, most recently saved first.
	ListContracts(ctx context.Context, userID string) ([]*Contract, error)

	// UpdateContract overwrites the stored contract.
	UpdateContract(ctx context.Context, c *Contract) error

	// DeleteContract removes the contract and its roster.
	DeleteContract(ctx context.Context, id string) error

	// ReplaceMusicians atomically swaps the contract's roster.
	ReplaceMusicians(ctx context.Context, contractID string, musicians []SideMusician) error

	// ListMusicians returns the roster in Position order.
	ListMusicians(ctx context.Context, contractID string) ([]SideMusician, error)
}

/*
store.go - Persistence interface for the award registry

PURPOSE:

	The Registry keeps the working set in memory. A Store makes that set
	survive restarts. Implementations must keep insertion order: the first
	save of a code fixes its position and later saves replace the award in
	place.

IMPLEMENTATIONS:
  - award/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: SQLite

SEE ALSO:
  - registry.go: Write-through use of Store
*/
package award

import "context"

// Store persists awards.
type Store interface {
	// SaveAward inserts or wholly replaces the award with the same code.
	SaveAward(ctx context.Context, a Award) error

	// ListAwards returns every award in insertion order.
	ListAwards(ctx context.Context) ([]Award, error)
}

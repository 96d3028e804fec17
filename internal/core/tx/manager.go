// Package tx defines transaction management abstractions.
// Services depend on these interfaces; the postgres package implements them.
package tx

import "context"

// Manager runs functions within a database transaction.
// The transaction travels inside the context: repositories pick it up
// through their querier provider, so service code never touches pgx.
type Manager interface {
	// RunInTransaction executes fn within a READ COMMITTED transaction.
	// Commits if fn returns nil, rolls back otherwise.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// RunSerializable executes fn within a SERIALIZABLE transaction.
	// Used for settlement, where read-then-write races must be impossible.
	// Serialization failures surface to the caller as retryable conflicts.
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager runs functions within a read-only transaction.
// Used by reports for consistent multi-query snapshots.
type ReadOnlyManager interface {
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

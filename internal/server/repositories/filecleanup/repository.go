// Package filecleanup declares the queue of stored files whose physical
// removal has not been confirmed yet.
package filecleanup

import (
	"context"
)

type Repository interface {
	// Enqueue records keys for deletion. Keys already queued are ignored.
	Enqueue(ctx context.Context, keys []string) error

	// Pending returns up to limit queued keys, oldest first.
	Pending(ctx context.Context, limit int) ([]string, error)

	// Done removes key from the queue. Removing an absent key is not an error.
	Done(ctx context.Context, key string) error
}

// Package lock serialises work on a single key (an encounter id) without
// blocking work on other keys.
package lock

import "context"

// Unlock releases a held lock. It is safe to call more than once.
type Unlock func()

type Locker interface {
	// Lock blocks until key is held or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
}

package ports

import (
	"context"
	"time"
)

// RunLock evita que dos ejecuciones del resolver se solapen.
type RunLock interface {
	// Acquire devuelve domain.ErrLockHeld si otra ejecución tiene el lock.
	// La función de unlock se puede llamar más de una vez.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Package lock implementa ports.RunLock sobre Redis.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/resolverbot/internal/domain"
	"github.com/alejandrodnm/resolverbot/internal/ports"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockLua borra la key solo si el valor coincide con el token del holder.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

const unlockTimeout = 5 * time.Second

// Options configura la conexión a Redis.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// RedisLock implementa ports.RunLock con SETNX + TTL y unlock condicional en Lua.
type RedisLock struct {
	rdb    *redis.Client
	unlock *redis.Script
}

// NewRedisLock conecta a Redis y verifica la conexión con un PING.
func NewRedisLock(ctx context.Context, opts Options) (*RedisLock, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("lock.NewRedisLock: empty address")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("lock.NewRedisLock: ping %s: %w", opts.Addr, err)
	}
	return newWithClient(rdb), nil
}

func newWithClient(rdb *redis.Client) *RedisLock {
	return &RedisLock{rdb: rdb, unlock: redis.NewScript(unlockLua)}
}

func lockKey(key string) string {
	return "lock:" + key
}

// Acquire intenta tomar el lock. Devuelve domain.ErrLockHeld si otro proceso lo tiene.
// La función de unlock es idempotente y usa su propio contexto.
func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.New().String()
	lk := lockKey(key)

	ok, err := l.rdb.SetNX(ctx, lk, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("lock.Acquire: setnx %s: %w", key, err)
	}
	if !ok {
		return nil, domain.ErrLockHeld
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		uctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		_ = l.unlock.Run(uctx, l.rdb, []string{lk}, token).Err()
	}, nil
}

// Close cierra la conexión.
func (l *RedisLock) Close() error {
	return l.rdb.Close()
}

var _ ports.RunLock = (*RedisLock)(nil)

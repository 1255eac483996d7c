// Package cache guarda la lista de sesiones revocadas (logout) por jti.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "session:revoked:"

// RedisRevoker lista de revocación en Redis; cada clave expira con el token.
type RedisRevoker struct {
	rdb *redis.Client
	now func() time.Time
}

// NewRedisClient abre el cliente a partir de una URL redis://.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: redis url: %w", err)
	}
	return redis.NewClient(opt), nil
}

// NewRedisRevoker envuelve un cliente ya configurado.
func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, now: time.Now}
}

// WithClock fija el reloj (tests).
func (r *RedisRevoker) WithClock(now func() time.Time) *RedisRevoker {
	r.now = now
	return r
}

// Revoke marca el jti como revocado hasta until. Un token ya vencido no se guarda.
func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if jti == "" || ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, revokedPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("cache: revoke: %w", err)
	}
	return nil
}

// IsRevoked consulta la lista.
func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("cache: is revoked: %w", err)
	}
	return n > 0, nil
}

// Ping comprueba la conexión al arrancar.
func (r *RedisRevoker) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

// MemoryRevoker lista de revocación en proceso, para STORAGE_DRIVER=memory y tests.
type MemoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker crea una lista vacía.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{revoked: make(map[string]time.Time), now: time.Now}
}

// WithClock fija el reloj (tests).
func (m *MemoryRevoker) WithClock(now func() time.Time) *MemoryRevoker {
	m.now = now
	return m
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, k)
		}
	}
	if jti != "" && until.After(now) {
		m.revoked[jti] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[jti]
	return ok && exp.After(m.now()), nil
}

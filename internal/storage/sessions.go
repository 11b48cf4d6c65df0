package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks revoked session ids until their tokens expire.
type SessionStore interface {
	Revoke(ctx context.Context, sid string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sid string) (bool, error)
}

// NewSessionStore uses Redis when rdb is set and process memory otherwise.
func NewSessionStore(rdb *redis.Client) SessionStore {
	if rdb == nil {
		return NewMemorySessionStore()
	}
	return &RedisSessionStore{rdb: rdb}
}

func revokedKey(sid string) string {
	return "session:revoked:" + sid
}

type RedisSessionStore struct {
	rdb *redis.Client
}

func (r *RedisSessionStore) Revoke(ctx context.Context, sid string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revokedKey(sid), "1", ttl).Err()
}

func (r *RedisSessionStore) IsRevoked(ctx context.Context, sid string) (bool, error) {
	_, err := r.rdb.Get(ctx, revokedKey(sid)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type MemorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemorySessionStore) Revoke(_ context.Context, sid string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gc()
	m.revoked[sid] = m.now().Add(ttl)
	return nil
}

func (m *MemorySessionStore) IsRevoked(_ context.Context, sid string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.revoked[sid]
	if !ok {
		return false, nil
	}
	if !m.now().Before(exp) {
		delete(m.revoked, sid)
		return false, nil
	}
	return true, nil
}

// gc drops expired entries. Caller holds mu.
func (m *MemorySessionStore) gc() {
	now := m.now()
	for sid, exp := range m.revoked {
		if !now.Before(exp) {
			delete(m.revoked, sid)
		}
	}
}

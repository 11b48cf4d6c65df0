package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"moodmatch/backend/internal/models"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps a bounded AI companion transcript per session. Once the
// limit is reached the oldest entries are evicted; a session's history
// expires ttl after its last append.
type HistoryStore interface {
	Append(ctx context.Context, sid string, msgs ...models.CompanionMessage) error
	Get(ctx context.Context, sid string) ([]models.CompanionMessage, error)
	Clear(ctx context.Context, sid string) error
}

// NewHistoryStore uses Redis when rdb is set and process memory otherwise.
func NewHistoryStore(rdb *redis.Client, limit int, ttl time.Duration) HistoryStore {
	if rdb == nil {
		return NewMemoryHistoryStore(limit, ttl)
	}
	return &RedisHistoryStore{rdb: rdb, limit: limit, ttl: ttl}
}

func historyKey(sid string) string {
	return "companion:history:" + sid
}

type RedisHistoryStore struct {
	rdb   *redis.Client
	limit int
	ttl   time.Duration
}

func (r *RedisHistoryStore) Append(ctx context.Context, sid string, msgs ...models.CompanionMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, string(b))
	}

	key := historyKey(sid)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-r.limit), -1)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append companion history: %w", err)
	}
	return nil
}

func (r *RedisHistoryStore) Get(ctx context.Context, sid string) ([]models.CompanionMessage, error) {
	raw, err := r.rdb.LRange(ctx, historyKey(sid), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read companion history: %w", err)
	}
	out := make([]models.CompanionMessage, 0, len(raw))
	for _, item := range raw {
		var m models.CompanionMessage
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *RedisHistoryStore) Clear(ctx context.Context, sid string) error {
	return r.rdb.Del(ctx, historyKey(sid)).Err()
}

type memoryHistory struct {
	msgs    []models.CompanionMessage
	expires time.Time
}

type MemoryHistoryStore struct {
	mu       sync.Mutex
	limit    int
	ttl      time.Duration
	sessions map[string]*memoryHistory
	now      func() time.Time
}

func NewMemoryHistoryStore(limit int, ttl time.Duration) *MemoryHistoryStore {
	return &MemoryHistoryStore{
		limit:    limit,
		ttl:      ttl,
		sessions: make(map[string]*memoryHistory),
		now:      time.Now,
	}
}

func (m *MemoryHistoryStore) Append(_ context.Context, sid string, msgs ...models.CompanionMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.live(sid)
	if h == nil {
		h = &memoryHistory{}
		m.sessions[sid] = h
	}
	h.msgs = append(h.msgs, msgs...)
	if m.limit > 0 && len(h.msgs) > m.limit {
		h.msgs = append([]models.CompanionMessage(nil), h.msgs[len(h.msgs)-m.limit:]...)
	}
	if m.ttl > 0 {
		h.expires = m.now().Add(m.ttl)
	}
	return nil
}

func (m *MemoryHistoryStore) Get(_ context.Context, sid string) ([]models.CompanionMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.live(sid)
	if h == nil {
		return []models.CompanionMessage{}, nil
	}
	return append([]models.CompanionMessage(nil), h.msgs...), nil
}

func (m *MemoryHistoryStore) Clear(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sid)
	return nil
}

// live returns the unexpired history for sid. Caller holds mu.
func (m *MemoryHistoryStore) live(sid string) *memoryHistory {
	h, ok := m.sessions[sid]
	if !ok {
		return nil
	}
	if !h.expires.IsZero() && !m.now().Before(h.expires) {
		delete(m.sessions, sid)
		return nil
	}
	return h
}

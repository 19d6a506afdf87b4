// Package activity keeps a short rolling log of domain lifecycle events per
// tenant.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"domainflow/internal/tenant/models"
	id "domainflow/pkg/domain"
)

const keyPrefix = "tenant:domains:events:"

// Key is the Redis list holding a tenant's activity, newest first.
func Key(tenantID id.TenantID) string {
	return keyPrefix + tenantID.String()
}

// RedisLog stores activity in a capped, expiring Redis list.
type RedisLog struct {
	client redis.Cmdable
	limit  int
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, limit int, ttl time.Duration) *RedisLog {
	return &RedisLog{client: client, limit: limit, ttl: ttl}
}

// Append pushes entry, trims the list to the limit and refreshes its TTL in
// one pipeline.
func (l *RedisLog) Append(ctx context.Context, tenantID id.TenantID, entry models.Activity) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	key := Key(tenantID)
	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, raw)
		pipe.LTrim(ctx, key, 0, int64(l.limit-1))
		pipe.Expire(ctx, key, l.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	return nil
}

func (l *RedisLog) List(ctx context.Context, tenantID id.TenantID) ([]models.Activity, error) {
	items, err := l.client.LRange(ctx, Key(tenantID), 0, int64(l.limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	out := make([]models.Activity, 0, len(items))
	for _, item := range items {
		var a models.Activity
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// MemoryLog is the single-process variant. A tenant's whole log expires ttl
// after its last append, as the Redis list does.
type MemoryLog struct {
	mu      sync.Mutex
	limit   int
	ttl     time.Duration
	now     func() time.Time
	entries map[id.TenantID]*memoryEntry
}

type memoryEntry struct {
	items     []models.Activity
	expiresAt time.Time
}

func NewMemory(limit int, ttl time.Duration) *MemoryLog {
	return &MemoryLog{
		limit:   limit,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[id.TenantID]*memoryEntry),
	}
}

func (l *MemoryLog) Append(_ context.Context, tenantID id.TenantID, entry models.Activity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[tenantID]
	if !ok || now.After(e.expiresAt) {
		e = &memoryEntry{}
		l.entries[tenantID] = e
	}
	e.items = append([]models.Activity{entry}, e.items...)
	if len(e.items) > l.limit {
		e.items = e.items[:l.limit]
	}
	e.expiresAt = now.Add(l.ttl)
	return nil
}

func (l *MemoryLog) List(_ context.Context, tenantID id.TenantID) ([]models.Activity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[tenantID]
	if !ok || l.now().After(e.expiresAt) {
		delete(l.entries, tenantID)
		return []models.Activity{}, nil
	}
	out := make([]models.Activity, len(e.items))
	copy(out, e.items)
	return out, nil
}

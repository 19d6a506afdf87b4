package cache

import (
	"context"
	"errors"
	"time"
)

// Tiered checks L1 then L2, backfilling L1 on an L2 hit. Writes and deletes
// go to both levels; L1 entries never outlive l1TTL so other replicas'
// invalidations are observed within that window.
type Tiered struct {
	l1    Cache
	l2    Cache
	l1TTL time.Duration
}

func NewTiered(l1, l2 Cache, l1TTL time.Duration) *Tiered {
	return &Tiered{l1: l1, l2: l2, l1TTL: l1TTL}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, found, err := t.l1.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if found {
		return val, true, nil
	}

	val, found, err = t.l2.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	_ = t.l1.Set(ctx, key, val, t.l1TTL)
	return val, true, nil
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	l1TTL := ttl
	if t.l1TTL > 0 && (l1TTL <= 0 || t.l1TTL < l1TTL) {
		l1TTL = t.l1TTL
	}
	if err := t.l1.Set(ctx, key, value, l1TTL); err != nil {
		return err
	}
	return t.l2.Set(ctx, key, value, ttl)
}

// Delete removes from both levels even when one of them fails.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	return errors.Join(t.l1.Delete(ctx, key), t.l2.Delete(ctx, key))
}

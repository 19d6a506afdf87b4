package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Local is an in-process cache used as L1 in front of Redis, or alone when
// Redis is not configured.
type Local struct {
	c *ristretto.Cache[string, []byte]
}

// NewLocal creates a ristretto cache holding roughly maxItems entries.
func NewLocal(maxItems int64) (*Local, error) {
	if maxItems <= 0 {
		maxItems = 10_000
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Local{c: c}, nil
}

func (l *Local) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := l.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores value at unit cost and waits for the write buffer so a
// following Get observes it.
func (l *Local) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	l.c.SetWithTTL(key, value, 1, ttl)
	l.c.Wait()
	return nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	l.c.Del(key)
	return nil
}

func (l *Local) Close() {
	l.c.Close()
}

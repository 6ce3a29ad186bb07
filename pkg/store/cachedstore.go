package store

import (
	"context"
	"time"

	"github.com/conr2d/restaking/internal/database/cache"
	"github.com/conr2d/restaking/pkg/core"
)

// cachedAccount is the cache representation of one lookup, including
// negative results so absent addresses do not hammer the backing store.
type cachedAccount struct {
	Present bool   `msgpack:"p"`
	Owner   []byte `msgpack:"o"`
	Data    []byte `msgpack:"d"`
}

// CachedStore layers a read-through cache over another AccountStore.
// Writes go straight through and invalidate the touched keys.
type CachedStore struct {
	inner AccountStore
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedStore(inner AccountStore, c cache.Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, cache: c, ttl: ttl}
}

func cacheKey(key core.Pubkey) string {
	return "account:" + key.String()
}

func (s *CachedStore) Get(ctx context.Context, key core.Pubkey) (*Entry, error) {
	var cached cachedAccount
	err := s.cache.Get(ctx, cacheKey(key), &cached, s.ttl, func() (interface{}, error) {
		entry, err := s.inner.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if entry == nil {
			return cachedAccount{}, nil
		}
		return cachedAccount{Present: true, Owner: entry.Owner.Bytes(), Data: entry.Data}, nil
	})
	if err != nil {
		return nil, err
	}
	if !cached.Present {
		return nil, nil
	}
	owner, err := core.PubkeyFromBytes(cached.Owner)
	if err != nil {
		return nil, err
	}
	return &Entry{Key: key, Owner: owner, Data: cached.Data}, nil
}

func (s *CachedStore) PutBatch(ctx context.Context, entries []Entry) error {
	if err := s.inner.PutBatch(ctx, entries); err != nil {
		return err
	}
	keys := make([]string, len(entries))
	for i, entry := range entries {
		keys[i] = cacheKey(entry.Key)
	}
	return s.cache.Invalidate(ctx, keys...)
}

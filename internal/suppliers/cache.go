package suppliers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/mawrid/mawrid/internal/supabase"
)

const (
	cacheVersionKey = "directory:version"
	// BumpChannel carries cache version bumps between instances.
	BumpChannel = "directory.bump"
	// loadTimeout bounds a shared load once it no longer follows any caller.
	loadTimeout = 20 * time.Second
)

// Cache keeps the full supplier list in Redis under a versioned key, with a
// short-lived in-process copy in front of it. A nil Cache passes through.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	local  *gocache.Cache
	group  singleflight.Group
}

// NewCache builds the directory cache. localTTL <= 0 disables the
// in-process layer.
func NewCache(client *redis.Client, ttl, localTTL time.Duration) *Cache {
	c := &Cache{client: client, ttl: ttl}
	if localTTL > 0 {
		c.local = gocache.New(localTTL, 2*localTTL)
	}
	return c
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
	}
	return ver, nil
}

func (c *Cache) listKey(ctx context.Context) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("directory:suppliers:%d", ver), nil
}

// Suppliers returns the cached list or loads it. Concurrent misses share a
// single loader call. The shared load runs detached from the caller that
// started it and always with the anon credential, so a cancelled caller
// does not fail the others and a staff token never fills the public entry.
func (c *Cache) Suppliers(ctx context.Context, loader func(context.Context) ([]Supplier, error)) ([]Supplier, error) {
	if c == nil {
		return loader(ctx)
	}
	key := "directory:suppliers"
	if c.client != nil {
		k, err := c.listKey(ctx)
		if err != nil {
			return loader(ctx)
		}
		key = k
	}
	if c.local != nil {
		if v, ok := c.local.Get(key); ok {
			return cloneList(v.([]Supplier)), nil
		}
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(supabase.WithoutAccessToken(context.WithoutCancel(ctx)), loadTimeout)
		defer cancel()
		if c.client != nil {
			payload, err := c.client.Get(loadCtx, key).Bytes()
			if err == nil {
				var list []Supplier
				if err := json.Unmarshal(payload, &list); err == nil {
					return list, nil
				}
			}
		}
		list, err := loader(loadCtx)
		if err != nil {
			return nil, err
		}
		if c.client != nil {
			if raw, err := json.Marshal(list); err == nil {
				_ = c.client.Set(loadCtx, key, raw, c.ttl).Err()
			}
		}
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		list := res.Val.([]Supplier)
		if c.local != nil {
			c.local.SetDefault(key, list)
		}
		return cloneList(list), nil
	}
}

// Bump invalidates the cached list by incrementing the version and
// publishing it to other instances.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.local != nil {
		c.local.Flush()
	}
	if c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, BumpChannel, strconv.FormatInt(ver, 10)).Err()
}

// ListenForInvalidation drops the in-process copy whenever another instance
// bumps the version.
func (c *Cache) ListenForInvalidation(ctx context.Context) {
	if c == nil || c.client == nil || c.local == nil {
		return
	}
	pubsub := c.client.Subscribe(ctx, BumpChannel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				c.local.Flush()
			}
		}
	}()
}

func cloneList(list []Supplier) []Supplier {
	out := make([]Supplier, len(list))
	copy(out, list)
	return out
}

// Package refcache is a small TTL cache for display-name lookups. List
// responses join human-readable names (ship name on cargo, port name on a
// berth assignment) onto records that only carry ids; the cache keeps those
// joins from hammering the store on every list.
package refcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultSize = 4096

// Loader fetches the display name for one entity id on cache miss.
type Loader func(ctx context.Context) (string, error)

// Cache is a read-through TTL cache keyed by "<entity>:<id>". Entries expire
// on their own; mutations should still Invalidate so renames show up before
// the TTL runs out.
type Cache struct {
	lru *expirable.LRU[string, string]
}

// New creates a cache with the given entry TTL. A zero ttl means entries
// live until evicted by size pressure.
func New(ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, string](defaultSize, nil, ttl)}
}

func ShipName(id string) string      { return "ship:" + id }
func PortName(id string) string      { return "port:" + id }
func WarehouseName(id string) string { return "warehouse:" + id }

// VoyageShip keys the ship name reached through a voyage plan, for cargo
// rows that only carry the plan id.
func VoyageShip(planID string) string { return "voyageship:" + planID }

// Get returns the cached name or loads, stores and returns it. Load errors
// are not cached.
func (c *Cache) Get(ctx context.Context, key string, load Loader) (string, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return "", err
	}
	c.lru.Add(key, v)
	return v, nil
}

// Invalidate drops one key after a rename or delete.
func (c *Cache) Invalidate(key string) {
	c.lru.Remove(key)
}

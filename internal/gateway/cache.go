package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"evalgo.org/megacloud-mcp/internal/metrics"
	"evalgo.org/megacloud-mcp/models"
)

const (
	// UnknownName is returned for type codes missing from the catalog.
	UnknownName = "Unknown"

	// UnknownType is returned for names missing from the catalog.
	UnknownType = -1
)

// TypeCache maps middleware type codes to names and back. Both directions
// are filled from a single catalog listing, fetched on first use and kept
// for the lifetime of the cache. A failed fetch leaves the cache empty so a
// later lookup tries again.
type TypeCache struct {
	fetch func(ctx context.Context) ([]models.MiddlewareType, error)

	mu     sync.Mutex
	loaded bool
	byCode map[int]string
	byName map[string]int
	names  []string
}

// NewTypeCache creates a cache backed by fetch.
func NewTypeCache(fetch func(ctx context.Context) ([]models.MiddlewareType, error)) *TypeCache {
	return &TypeCache{fetch: fetch}
}

func (c *TypeCache) load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}

	metrics.TypeCatalogFetches.Inc()
	types, err := c.fetch(ctx)
	if err != nil {
		return fmt.Errorf("load middleware types: %w", err)
	}

	byCode := make(map[int]string, len(types))
	byName := make(map[string]int, len(types))
	names := make([]string, 0, len(types))
	for _, t := range types {
		byCode[t.MiddlewareType] = t.Name
		byName[strings.ToLower(t.Name)] = t.MiddlewareType
		names = append(names, t.Name)
	}
	sort.Strings(names)

	c.byCode = byCode
	c.byName = byName
	c.names = names
	c.loaded = true
	return nil
}

// MiddlewareName returns the name registered for code, or UnknownName.
func (c *TypeCache) MiddlewareName(ctx context.Context, code int) (string, error) {
	if err := c.load(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if name, ok := c.byCode[code]; ok {
		return name, nil
	}
	return UnknownName, nil
}

// MiddlewareType returns the code registered for name (case-insensitive),
// or UnknownType.
func (c *TypeCache) MiddlewareType(ctx context.Context, name string) (int, error) {
	if err := c.load(ctx); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if code, ok := c.byName[strings.ToLower(name)]; ok {
		return code, nil
	}
	return UnknownType, nil
}

// Names returns the known middleware type names, sorted.
func (c *TypeCache) Names(ctx context.Context) ([]string, error) {
	if err := c.load(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...), nil
}

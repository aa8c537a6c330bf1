// Package predict generates predictions from the active model, persists
// them, validates them against realized prices, and raises alerts on
// notable market conditions.
package predict

import (
	"context"
	"sync"

	"github.com/Riyan-420/CryptoSentinel-V2/model"
)

// Cache holds the in-memory model bundle used by the inference path. The
// bundle is swapped wholesale after a successful training run, so readers
// never observe a half-updated model.
type Cache struct {
	mu     sync.RWMutex
	bundle *model.Bundle
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached bundle, or nil when no model has been loaded.
func (c *Cache) Get() *model.Bundle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bundle
}

// Swap replaces the cached bundle.
func (c *Cache) Swap(bundle *model.Bundle) {
	c.mu.Lock()
	c.bundle = bundle
	c.mu.Unlock()
}

// Reload fetches the active version from the registry and swaps it in.
func (c *Cache) Reload(ctx context.Context, registry *model.Registry) error {
	bundle, err := registry.Active(ctx)
	if err != nil {
		return err
	}
	c.Swap(bundle)
	return nil
}

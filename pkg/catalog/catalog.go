package catalog

import (
	"fmt"
	"sync"
)

// Catalog is a thread-safe registry of model descriptors. Iteration order is
// the order entries were added, which downstream selection relies on for
// stable tie-breaking. Quality ranks are kept per model name; a model with no
// configured rank has rank zero.
type Catalog struct {
	mu      sync.RWMutex
	entries map[Key]Descriptor
	order   []Key
	ranks   map[string]int
}

// New builds a catalog from the given descriptors. Duplicate keys are
// rejected so that a misconfigured catalog fails loudly at startup.
func New(descriptors []Descriptor, ranks map[string]int) (*Catalog, error) {
	c := &Catalog{
		entries: make(map[Key]Descriptor, len(descriptors)),
		ranks:   make(map[string]int, len(ranks)),
	}
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		k := d.Key()
		if _, exists := c.entries[k]; exists {
			return nil, fmt.Errorf("duplicate catalog entry %s", k)
		}
		c.entries[k] = d
		c.order = append(c.order, k)
	}
	for model, rank := range ranks {
		c.ranks[model] = rank
	}
	return c, nil
}

// Get returns the descriptor for the given key.
func (c *Catalog) Get(k Key) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.entries[k]
	return d, ok
}

// List returns all descriptors in insertion order.
func (c *Catalog) List() []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Descriptor, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// QualityRank returns the configured quality rank for a model name. Higher is
// better. Unranked models return zero.
func (c *Catalog) QualityRank(model string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ranks[model]
}

// Upsert adds or replaces a single descriptor. New keys are appended at the
// end of the iteration order; existing keys keep their position.
func (c *Catalog) Upsert(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	k := d.Key()
	if _, exists := c.entries[k]; !exists {
		c.order = append(c.order, k)
	}
	c.entries[k] = d
	return nil
}

// Remove deletes a descriptor. Removing an absent key is a no-op.
func (c *Catalog) Remove(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[k]; !exists {
		return
	}
	delete(c.entries, k)
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Replace swaps the full contents of the catalog atomically. Used by the
// watcher when the catalog file changes on disk.
func (c *Catalog) Replace(descriptors []Descriptor, ranks map[string]int) error {
	next, err := New(descriptors, ranks)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = next.entries
	c.order = next.order
	c.ranks = next.ranks
	return nil
}

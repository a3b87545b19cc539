package reconciler

import (
	"context"

	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// LoadFunc lists the remote name/id pairs that seed a cache.
type LoadFunc func(ctx context.Context) ([]taxonomy.NamedRef, error)

// CreateFunc creates a missing name remotely and returns its id.
type CreateFunc func(ctx context.Context) (string, error)

// NameCache maps case-folded names to remote ids. It is seeded from load on
// first use and grows as names are created. Entries are never invalidated,
// so a remote rename during a run goes unnoticed.
type NameCache struct {
	load   LoadFunc
	loaded bool
	ids    map[string]string
}

// NewNameCache creates a cache. A nil load seeds nothing.
func NewNameCache(load LoadFunc) *NameCache {
	return &NameCache{load: load, ids: make(map[string]string)}
}

func (c *NameCache) ensure(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	if c.load != nil {
		refs, err := c.load(ctx)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			if _, dup := c.ids[taxonomy.FoldName(ref.Name)]; !dup {
				c.ids[taxonomy.FoldName(ref.Name)] = ref.ID
			}
		}
	}
	c.loaded = true
	return nil
}

// Lookup returns the cached id of name, seeding the cache if needed.
func (c *NameCache) Lookup(ctx context.Context, name string) (string, bool, error) {
	if err := c.ensure(ctx); err != nil {
		return "", false, err
	}
	id, ok := c.ids[taxonomy.FoldName(name)]
	return id, ok, nil
}

// Resolve returns the id of name, calling create and caching the result
// when the name is unknown.
func (c *NameCache) Resolve(ctx context.Context, name string, create CreateFunc) (string, error) {
	id, ok, err := c.Lookup(ctx, name)
	if err != nil || ok {
		return id, err
	}
	id, err = create(ctx)
	if err != nil {
		return "", err
	}
	c.Put(name, id)
	return id, nil
}

// Put records an id for name.
func (c *NameCache) Put(name, id string) {
	c.ids[taxonomy.FoldName(name)] = id
}

// Len returns the number of cached names.
func (c *NameCache) Len() int {
	return len(c.ids)
}

// Package profile caches the signed-in user's profile for the lifetime of a
// session.
package profile

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/medml/medcli/internal/client/models"
	"github.com/medml/medcli/internal/logging"
)

// Fetcher is the part of the backend the cache needs.
type Fetcher interface {
	GetProfile(ctx context.Context) (*models.Profile, error)
	Me(ctx context.Context) (*models.Identity, error)
}

// Cache holds at most one profile. The first successful fetch wins and is
// returned by reference until Clear.
//
// Concurrent Fetch calls on an empty cache share a single request.
type Cache struct {
	api    Fetcher
	logger logging.Logger

	mu      sync.RWMutex
	profile *models.Profile
	loading bool
	// gen is bumped by Clear; a load started under an older gen does not
	// store its result.
	gen uint64

	group singleflight.Group
}

func NewCache(api Fetcher, logger logging.Logger) *Cache {
	return &Cache{api: api, logger: logger}
}

// Get returns the cached profile or nil.
func (c *Cache) Get() *models.Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile
}

// Loading reports whether a fetch is in flight. It is advisory only.
func (c *Cache) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Clear drops the cached profile; the next Fetch goes to the network.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.profile = nil
	c.gen++
	c.mu.Unlock()
	c.group.Forget(fetchKey)
}

const fetchKey = "profile"

// Fetch returns the cached profile, loading it first when the cache is
// empty. On failure the cache stays empty and the error is returned.
//
// The shared request is not cancelled with any one caller's ctx; each
// caller stops waiting when its own ctx is done.
func (c *Cache) Fetch(ctx context.Context) (*models.Profile, error) {
	if p := c.Get(); p != nil {
		return p, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fetchKey, func() (any, error) {
		// a caller that lost the race may arrive after the winner stored
		if p := c.Get(); p != nil {
			return p, nil
		}
		return c.load(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Profile), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) load(ctx context.Context) (*models.Profile, error) {
	c.setLoading(true)
	defer c.setLoading(false)

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	p, err := c.api.GetProfile(ctx)
	if err != nil {
		c.logger.Debug(ctx, "profile fetch failed", "error", err)
		return nil, err
	}

	if p.Username == "" {
		c.mergeIdentity(ctx, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		// cleared while in flight: the caller gets what it asked for, the
		// next session does not
		return p, nil
	}
	if c.profile == nil {
		c.profile = p
	}
	return c.profile, nil
}

// mergeIdentity fills username (and email when absent) from the "me"
// endpoint. Its failure does not fail the fetch.
func (c *Cache) mergeIdentity(ctx context.Context, p *models.Profile) {
	id, err := c.api.Me(ctx)
	if err != nil {
		c.logger.Warn(ctx, "identity fetch failed, keeping profile without username", "error", err)
		return
	}
	p.Username = id.Username
	if p.Email == "" {
		p.Email = id.Email
	}
}

func (c *Cache) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

package canvas

import (
	"sort"
	"sync"

	"github.com/jpcpamies/IdeaFlow-sub000/internal/model"
)

// IdeaCache is the client's write-through mirror of the idea list.
//
// The contract that matters: a pure position update patches the cached card
// in place and never marks the cache stale. Refetching after every drag would
// make cards snap back to their server position for a frame — the one visual
// glitch this cache exists to prevent. Everything that changes more than
// position goes through Invalidate, which tells the owner to refetch.
type IdeaCache struct {
	mu    sync.RWMutex
	byID  map[string]model.Idea
	stale bool
}

// NewIdeaCache returns an empty, stale cache — callers fetch before first use.
func NewIdeaCache() *IdeaCache {
	return &IdeaCache{byID: make(map[string]model.Idea), stale: true}
}

// Fill replaces the cache contents with a fresh server fetch.
func (c *IdeaCache) Fill(ideas []model.Idea) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = make(map[string]model.Idea, len(ideas))
	for _, idea := range ideas {
		c.byID[idea.ID] = idea
	}
	c.stale = false
}

// Get returns a copy of the cached idea.
func (c *IdeaCache) Get(id string) (model.Idea, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idea, ok := c.byID[id]
	return idea, ok
}

// All returns the cached ideas ordered by creation time then id.
func (c *IdeaCache) All() []model.Idea {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Idea, 0, len(c.byID))
	for _, idea := range c.byID {
		out = append(out, idea)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PatchPosition updates only the position fields of one card, in place.
// The cache stays fresh — no refetch is triggered.
func (c *IdeaCache) PatchPosition(id string, x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	idea, ok := c.byID[id]
	if !ok {
		return false
	}
	idea.PositionX = x
	idea.PositionY = y
	c.byID[id] = idea
	return true
}

// Put inserts or replaces a single card (used when a companion idea comes
// back from task creation).
func (c *IdeaCache) Put(idea model.Idea) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID[idea.ID] = idea
}

// Remove drops a card from the cache (after a confirmed delete).
func (c *IdeaCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, id)
}

// Invalidate marks the cache stale; the owner refetches before next render.
func (c *IdeaCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stale = true
}

// Stale reports whether a refetch is due.
func (c *IdeaCache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Len returns the number of cached cards.
func (c *IdeaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

package storage

import (
	"context"
	"sync"
)

type MemoryLocationCache struct {
	mu      sync.RWMutex
	entries map[string]Location
}

func NewMemoryLocationCache() *MemoryLocationCache {
	return &MemoryLocationCache{entries: make(map[string]Location)}
}

func (c *MemoryLocationCache) Get(_ context.Context, city string) (Location, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	loc, ok := c.entries[Key(city)]
	return loc, ok, nil
}

func (c *MemoryLocationCache) Set(_ context.Context, city string, loc Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(city)] = loc
	return nil
}

func (c *MemoryLocationCache) Close() error { return nil }

type historyKey struct {
	city      string
	timestamp string
}

type MemoryWeatherHistory struct {
	mu      sync.RWMutex
	entries map[historyKey]Observation
}

func NewMemoryWeatherHistory() *MemoryWeatherHistory {
	return &MemoryWeatherHistory{entries: make(map[historyKey]Observation)}
}

func (h *MemoryWeatherHistory) Get(_ context.Context, city, timestamp string) (Observation, bool, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	obs, ok := h.entries[historyKey{Key(city), timestamp}]
	return obs, ok, nil
}

func (h *MemoryWeatherHistory) Set(_ context.Context, city, timestamp string, obs Observation) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := historyKey{Key(city), timestamp}
	if _, exists := h.entries[key]; !exists {
		h.entries[key] = obs
	}
	return nil
}

func (h *MemoryWeatherHistory) Close() error { return nil }

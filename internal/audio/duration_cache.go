package audio

import "sync"

// durationCache caches media file durations to avoid repeated ffprobe calls.
type durationCache struct {
	cache map[string]float64
	mu    sync.RWMutex
}

func newDurationCache() *durationCache {
	return &durationCache{cache: make(map[string]float64)}
}

func (c *durationCache) Get(path string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.cache[path]
	return d, ok
}

func (c *durationCache) Set(path string, duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[path] = duration
}

func (c *durationCache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, path)
}

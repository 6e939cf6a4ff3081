package cache

import (
	"container/list"
	"sync"
	"time"
)

// DefaultTTL is how long a rendered fragment stays valid
const DefaultTTL = 24 * time.Hour

// Service implements an LRU cache for rendered region markup
type Service struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	entries map[string]*list.Element // Map source key to list element
	lruList *list.List               // LRU list for eviction
	now     func() time.Time
	hits    int
	misses  int
}

// cacheEntry holds a rendered fragment with metadata
type cacheEntry struct {
	key       string
	html      string
	timestamp time.Time
}

// New creates a new cache service
func New(maxSize int) *Service {
	if maxSize <= 0 {
		maxSize = 100 // Default cache size
	}

	return &Service{
		maxSize: maxSize,
		ttl:     DefaultTTL,
		entries: make(map[string]*list.Element),
		lruList: list.New(),
		now:     time.Now,
	}
}

// Get returns the rendered fragment for key
func (s *Service) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, exists := s.entries[key]
	if !exists {
		s.misses++
		return "", false
	}

	entry := elem.Value.(*cacheEntry)
	if s.now().Sub(entry.timestamp) > s.ttl {
		// Entry is stale, remove it
		s.removeElementUnsafe(elem)
		s.misses++
		return "", false
	}

	s.lruList.MoveToFront(elem)
	s.hits++
	return entry.html, true
}

// Set caches the rendered fragment for key
func (s *Service) Set(key, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, exists := s.entries[key]; exists {
		entry := elem.Value.(*cacheEntry)
		entry.html = html
		entry.timestamp = s.now()
		s.lruList.MoveToFront(elem)
		return
	}

	elem := s.lruList.PushFront(&cacheEntry{
		key:       key,
		html:      html,
		timestamp: s.now(),
	})
	s.entries[key] = elem

	s.enforceMaxSize()
}

// GetOrRender returns the cached fragment for key, rendering and caching it on a miss
func (s *Service) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := s.Get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	s.Set(key, html)
	return html, nil
}

// enforceMaxSize removes old entries if cache exceeds max size
func (s *Service) enforceMaxSize() {
	for s.lruList.Len() > s.maxSize {
		if elem := s.lruList.Back(); elem != nil {
			s.removeElementUnsafe(elem)
		}
	}
}

// removeElementUnsafe removes an entry (must hold lock)
func (s *Service) removeElementUnsafe(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(s.entries, entry.key)
	s.lruList.Remove(elem)
}

// Size returns the current cache size
func (s *Service) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lruList.Len()
}

// Stats returns cache statistics
func (s *Service) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return CacheStats{
		Size:    s.lruList.Len(),
		MaxSize: s.maxSize,
		Hits:    s.hits,
		Misses:  s.misses,
	}
}

// CacheStats holds cache statistics
type CacheStats struct {
	Size    int `json:"size"`
	MaxSize int `json:"max_size"`
	Hits    int `json:"hits"`
	Misses  int `json:"misses"`
}

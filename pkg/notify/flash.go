package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultFlashTTL bounds how long an unread flash survives.
const DefaultFlashTTL = 2 * time.Minute

// FlashStore parks notifications under a key so they can be shown on the
// page a redirect lands on. Entries expire after the configured TTL.
type FlashStore struct {
	cache *cache.Cache
}

// FlashOption customises a FlashStore.
type FlashOption func(*flashConfig)

type flashConfig struct {
	ttl     time.Duration
	cleanup time.Duration
}

// WithFlashTTL sets the entry lifetime.
func WithFlashTTL(ttl time.Duration) FlashOption {
	return func(c *flashConfig) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewFlashStore creates an empty store.
func NewFlashStore(opts ...FlashOption) *FlashStore {
	cfg := flashConfig{ttl: DefaultFlashTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.cleanup = 2 * cfg.ttl
	return &FlashStore{cache: cache.New(cfg.ttl, cfg.cleanup)}
}

// NewKey returns a fresh flash key.
func (s *FlashStore) NewKey() string {
	return uuid.New().String()
}

// Push appends n to the flashes stored under key.
func (s *FlashStore) Push(key string, n Notification) {
	if key == "" {
		return
	}
	var items []Notification
	if existing, ok := s.cache.Get(key); ok {
		items = existing.([]Notification)
	}
	items = append(append([]Notification(nil), items...), n)
	s.cache.SetDefault(key, items)
}

// Pop returns and removes the flashes stored under key.
func (s *FlashStore) Pop(key string) []Notification {
	if key == "" {
		return nil
	}
	existing, ok := s.cache.Get(key)
	if !ok {
		return nil
	}
	s.cache.Delete(key)
	return existing.([]Notification)
}

// Notifier binds the store to key.
func (s *FlashStore) Notifier(key string) Notifier {
	return NotifierFunc(func(n Notification) {
		s.Push(key, n)
	})
}

package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.MappingStore.
type MemoryStore struct {
	mu   sync.RWMutex
	urls map[shortener.Code]shortener.ShortURL
	now  func() time.Time
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls: make(map[shortener.Code]shortener.ShortURL),
		now:  time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, code shortener.Code, longURL string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[code]; ok {
		return false, nil
	}

	m.urls[code] = shortener.ShortURL{
		Code:      code,
		LongURL:   longURL,
		CreatedAt: m.now(),
	}

	return true, nil
}

func (m *MemoryStore) Find(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) Delete(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.urls[code]; !ok {
		return shortener.ErrNotFound
	}

	delete(m.urls, code)

	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	urls := make([]shortener.ShortURL, 0, len(m.urls))
	for _, url := range m.urls {
		urls = append(urls, url)
	}

	slices.SortFunc(urls, func(a, b shortener.ShortURL) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return compareCodes(a.Code, b.Code)
	})

	return urls, nil
}

// Len returns the number of stored mappings.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.urls)
}

func compareCodes(a, b shortener.Code) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compile-time check.
var _ shortener.MappingStore = (*MemoryStore)(nil)

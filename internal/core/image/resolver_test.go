package image

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gift-recommender/internal/core/ai/cache"
	"gift-recommender/internal/infrastructure/config"
	"gift-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

const placeholder = "https://images.example.com/placeholder.jpg"

type stubSearcher struct {
	mu      sync.Mutex
	url     string
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return s.url, s.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	candidate := common.Candidate{Name: "Silk Scarf", ImageSearchQuery: "silk scarf gift"}

	t.Run("catalog image wins", func(t *testing.T) {
		searcher := &stubSearcher{url: "https://img/search"}
		r := NewResolver(searcher, nil, placeholder)

		got := r.Resolve(ctx, candidate, &common.Product{ImageURL: " https://img/catalog "})
		assert.Equal(t, "https://img/catalog", got)
		assert.Empty(t, searcher.queries)
	})

	t.Run("matched product without image searches", func(t *testing.T) {
		searcher := &stubSearcher{url: "https://img/search"}
		r := NewResolver(searcher, nil, placeholder)

		got := r.Resolve(ctx, candidate, &common.Product{ImageURL: ""})
		assert.Equal(t, "https://img/search", got)
		assert.Equal(t, []string{"silk scarf gift"}, searcher.queries)
	})

	t.Run("search failure falls back", func(t *testing.T) {
		r := NewResolver(&stubSearcher{err: errors.New("timeout")}, nil, placeholder)
		assert.Equal(t, placeholder, r.Resolve(ctx, candidate, nil))
	})

	t.Run("empty search result falls back", func(t *testing.T) {
		r := NewResolver(&stubSearcher{}, nil, placeholder)
		assert.Equal(t, placeholder, r.Resolve(ctx, candidate, nil))
	})

	t.Run("no searcher", func(t *testing.T) {
		r := NewResolver(nil, nil, placeholder)
		assert.Equal(t, placeholder, r.Resolve(ctx, candidate, nil))
	})
}

func TestResolveUsesCache(t *testing.T) {
	ctx := context.Background()
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()

	searcher := &stubSearcher{url: "https://img/search"}
	r := NewResolver(searcher, store, placeholder)
	candidate := common.Candidate{ImageSearchQuery: "brass diya gift"}

	assert.Equal(t, "https://img/search", r.Resolve(ctx, candidate, nil))
	assert.Equal(t, "https://img/search", r.Resolve(ctx, candidate, nil))
	assert.Len(t, searcher.queries, 1)
}

func TestResolveDoesNotCachePlaceholder(t *testing.T) {
	ctx := context.Background()
	store := cache.NewManager(config.CacheConfig{MaxSize: 10, TTL: time.Minute})
	defer store.Close()

	searcher := &stubSearcher{err: errors.New("down")}
	r := NewResolver(searcher, store, placeholder)
	candidate := common.Candidate{ImageSearchQuery: "brass diya gift"}

	assert.Equal(t, placeholder, r.Resolve(ctx, candidate, nil))

	searcher.err = nil
	searcher.url = "https://img/later"
	assert.Equal(t, "https://img/later", r.Resolve(ctx, candidate, nil))
}

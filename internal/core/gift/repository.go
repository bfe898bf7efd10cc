package gift

import (
	"context"
	"sort"
	"sync"
)

// Repository 收藏禮物儲存介面
type Repository interface {
	Create(ctx context.Context, g Gift) (Gift, error)
	GetByID(ctx context.Context, id string) (Gift, error)
	ListByUser(ctx context.Context, userID string) ([]Gift, error)
	ListAll(ctx context.Context) ([]Gift, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// InMemoryRepository 記憶體實作
type InMemoryRepository struct {
	mu    sync.RWMutex
	gifts map[string]Gift
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{gifts: make(map[string]Gift)}
}

func (r *InMemoryRepository) Create(_ context.Context, g Gift) (Gift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gifts[g.ID] = g
	return g, nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (Gift, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gifts[id]
	if !ok {
		return Gift{}, ErrNotFound
	}
	return g, nil
}

func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]Gift, error) {
	return r.filter(func(g Gift) bool { return g.UserID == userID }), nil
}

func (r *InMemoryRepository) ListAll(_ context.Context) ([]Gift, error) {
	return r.filter(func(Gift) bool { return true }), nil
}

func (r *InMemoryRepository) filter(keep func(Gift) bool) []Gift {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Gift, 0)
	for _, g := range r.gifts {
		if keep(g) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.gifts[id]; !ok {
		return ErrNotFound
	}
	delete(r.gifts, id)
	return nil
}

func (r *InMemoryRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.gifts), nil
}

package product

import (
	"context"
	"errors"
	"sync"

	"gift-recommender/internal/pkg/common"
)

var ErrNotFound = errors.New("product not found")

// Repository 商品目錄儲存介面，List 需維持匯入時的順序
type Repository interface {
	List(ctx context.Context) ([]common.Product, error)
	GetByID(ctx context.Context, id string) (common.Product, error)
	ReplaceAll(ctx context.Context, products []common.Product) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	products []common.Product
}

func NewInMemoryRepository(products ...common.Product) *InMemoryRepository {
	return &InMemoryRepository{products: cloneProducts(products)}
}

func (r *InMemoryRepository) List(_ context.Context) ([]common.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneProducts(r.products), nil
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (common.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return common.Product{}, ErrNotFound
}

func (r *InMemoryRepository) ReplaceAll(_ context.Context, products []common.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = cloneProducts(products)
	return nil
}

func cloneProducts(in []common.Product) []common.Product {
	out := make([]common.Product, len(in))
	copy(out, in)
	return out
}

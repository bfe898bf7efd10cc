package recommendation

import (
	"strings"

	"gift-recommender/internal/pkg/common"
)

// Pool 單次請求專用的商品目錄副本，配對成功的商品會被移除
type Pool struct {
	products []common.Product
}

// NewPool 複製快照，呼叫者的切片不受影響
func NewPool(snapshot []common.Product) *Pool {
	products := make([]common.Product, len(snapshot))
	copy(products, snapshot)
	return &Pool{products: products}
}

// Match 名稱與分類皆需完全相同（不分大小寫），取池中第一筆並移除
func (p *Pool) Match(c common.Candidate) (common.Product, bool) {
	name := strings.ToLower(c.Name)
	category := strings.ToLower(c.Category)

	for i, product := range p.products {
		if product.Name == "" || product.Category == "" {
			continue
		}
		if strings.ToLower(product.Name) == name && strings.ToLower(product.Category) == category {
			p.products = append(p.products[:i], p.products[i+1:]...)
			return product, true
		}
	}
	return common.Product{}, false
}

// Len 剩餘可配對的商品數
func (p *Pool) Len() int {
	return len(p.products)
}

package image

import (
	"context"
	"errors"
	"strings"

	"gift-recommender/internal/core/ai/cache"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

const cacheNamespace = "image"

// Resolver 決定每個推薦禮物的圖片：目錄圖片優先，其次搜尋，最後使用預設圖
type Resolver struct {
	searcher    Searcher
	store       cache.Store
	placeholder string
}

// NewResolver store 可為 nil
func NewResolver(searcher Searcher, store cache.Store, placeholder string) *Resolver {
	return &Resolver{searcher: searcher, store: store, placeholder: placeholder}
}

// Resolve 永遠回傳非空 URL
func (r *Resolver) Resolve(ctx context.Context, c common.Candidate, matched *common.Product) string {
	if matched != nil {
		if url := strings.TrimSpace(matched.ImageURL); url != "" {
			return url
		}
	}

	query := strings.TrimSpace(c.ImageSearchQuery)
	if query == "" || r.searcher == nil {
		return r.placeholder
	}

	key := cache.Key(cacheNamespace, query)
	if r.store != nil {
		if url, err := r.store.Get(ctx, key); err == nil && url != "" {
			return url
		} else if err != nil && !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("圖片快取讀取失敗", zap.Error(err))
		}
	}

	url, err := r.searcher.Search(ctx, query)
	if err != nil || strings.TrimSpace(url) == "" {
		common.LogDebug("圖片搜尋失敗，使用預設圖",
			zap.String("query", query),
			zap.Error(err),
		)
		return r.placeholder
	}

	if r.store != nil {
		if err := r.store.Set(ctx, key, url); err != nil {
			common.LogWarn("圖片快取寫入失敗", zap.Error(err))
		}
	}
	return url
}

package product

import (
	"context"
	"fmt"
	"strings"

	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 商品目錄
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List 回傳目錄快照，推薦流程每次請求讀取一次
func (s *Service) List(ctx context.Context) ([]common.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (common.Product, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

// ReplaceAll 以新目錄取代既有目錄，任一筆缺少必要欄位或 ID 重複時整批拒絕
func (s *Service) ReplaceAll(ctx context.Context, products []common.Product) error {
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if err := validate(p); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("product %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	if err := s.repo.ReplaceAll(ctx, products); err != nil {
		return err
	}
	common.LogInfo("商品目錄已更新", zap.Int("count", len(products)))
	return nil
}

func validate(p common.Product) error {
	required := map[string]string{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"imageUrl":    p.ImageURL,
		"category":    p.Category,
	}
	for _, field := range []string{"id", "name", "description", "imageUrl", "category"} {
		if strings.TrimSpace(required[field]) == "" {
			return fmt.Errorf("missing %s", field)
		}
	}
	return nil
}

package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	aiservice "gift-recommender/internal/core/ai/service"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// TextGenerator 文字生成（由 AI 服務提供重試與逾時）
type TextGenerator interface {
	ProcessRequest(ctx context.Context, prompt string) (*aiservice.Response, error)
}

// Catalog 商品目錄來源
type Catalog interface {
	List(ctx context.Context) ([]common.Product, error)
}

// ImageResolver 為候選禮物決定圖片
type ImageResolver interface {
	Resolve(ctx context.Context, c common.Candidate, matched *common.Product) string
}

// Options 推薦流程參數
type Options struct {
	CandidateCount   int
	ImageConcurrency int
}

// Service 推薦流程
type Service struct {
	generator TextGenerator
	catalog   Catalog
	images    ImageResolver
	opts      Options
}

func NewService(generator TextGenerator, catalog Catalog, images ImageResolver, opts Options) *Service {
	if opts.CandidateCount < 1 {
		opts.CandidateCount = 8
	}
	if opts.ImageConcurrency < 1 {
		opts.ImageConcurrency = 1
	}
	return &Service{generator: generator, catalog: catalog, images: images, opts: opts}
}

// Generate 產生推薦清單，順序與模型輸出一致
func (s *Service) Generate(ctx context.Context, survey common.SurveyInput) ([]common.EnrichedGift, error) {
	start := time.Now()

	resp, err := s.generator.ProcessRequest(ctx, BuildPrompt(survey, s.opts.CandidateCount))
	if err != nil {
		if errors.Is(err, aiservice.ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", aiservice.ErrProviderUnavailable, err)
	}

	raw, err := common.ExtractJSONArray(resp.Content)
	if err != nil {
		common.LogWarn("推薦解析失敗",
			zap.String("kind", parseErrorKind(err)),
			zap.Int("content_length", len(resp.Content)),
			zap.Error(err),
		)
		return []common.EnrichedGift{}, nil
	}
	if len(raw) == 0 {
		common.LogWarn("模型回傳零筆推薦")
		return []common.EnrichedGift{}, nil
	}

	candidates := make([]common.Candidate, len(raw))
	for i, item := range raw {
		candidates[i] = Normalize(item, i)
	}

	products, err := s.catalog.List(ctx)
	if err != nil {
		common.LogWarn("讀取商品目錄失敗，視為空目錄", zap.Error(err))
		products = nil
	}

	// 先依序完成所有配對，再平行解析圖片
	pool := NewPool(products)
	matches := make([]*common.Product, len(candidates))
	for i, c := range candidates {
		if product, ok := pool.Match(c); ok {
			matched := product
			matches[i] = &matched
		}
	}

	gifts := make([]common.EnrichedGift, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.ImageConcurrency)
	for i := range candidates {
		g.Go(func() error {
			gifts[i] = common.EnrichedGift{
				Candidate:      candidates[i],
				ImageURL:       s.images.Resolve(gctx, candidates[i], matches[i]),
				IsCatalogMatch: matches[i] != nil,
			}
			return nil
		})
	}
	_ = g.Wait()

	common.LogInfo("推薦完成",
		zap.Int("count", len(gifts)),
		zap.Int("catalog_matches", countMatches(matches)),
		zap.Duration("耗時", time.Since(start)),
	)
	return gifts, nil
}

func countMatches(matches []*common.Product) int {
	n := 0
	for _, m := range matches {
		if m != nil {
			n++
		}
	}
	return n
}

func parseErrorKind(err error) string {
	switch {
	case errors.Is(err, common.ErrNoArrayStart):
		return "no_array_start"
	case errors.Is(err, common.ErrUnbalancedBrackets):
		return "unbalanced_brackets"
	case errors.Is(err, common.ErrNotAnArray):
		return "not_an_array"
	case errors.Is(err, common.ErrArrayParse):
		return "parse_error"
	default:
		return "unknown"
	}
}

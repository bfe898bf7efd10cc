package gift

import (
	"context"
	"strings"
	"time"

	"gift-recommender/internal/core/user"
	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// SaveInput 收藏禮物的請求內容
type SaveInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       common.FlexString `json:"price"`
	Category    string            `json:"category"`
	ImageURL    string            `json:"imageUrl"`
	Reason      string            `json:"reason"`
}

// UserLister 取得使用者清單，用於管理端展開擁有者
type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

type Service struct {
	repo  Repository
	users UserLister
	now   func() time.Time
}

func NewService(repo Repository, users UserLister) *Service {
	return &Service{repo: repo, users: users, now: time.Now}
}

// Save 建立收藏，相同內容重複儲存會產生不同紀錄
func (s *Service) Save(ctx context.Context, userID string, in SaveInput) (Gift, error) {
	g := Gift{
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       strings.TrimSpace(in.Price.String()),
		Category:    strings.TrimSpace(in.Category),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Reason:      strings.TrimSpace(in.Reason),
	}
	if g.Name == "" || g.Description == "" || g.Price == "" ||
		g.Category == "" || g.ImageURL == "" || g.Reason == "" {
		return Gift{}, ErrMissingFields
	}

	now := s.now().UTC()
	g.ID = common.GenerateUUID()
	g.CreatedAt = now
	g.UpdatedAt = now

	created, err := s.repo.Create(ctx, g)
	if err != nil {
		return Gift{}, err
	}

	common.LogInfo("禮物已收藏",
		zap.String("gift_id", created.ID),
		zap.String("user_id", userID),
	)
	return created, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Gift, error) {
	return s.repo.ListByUser(ctx, userID)
}

// DeleteOwned 刪除自己的收藏；不存在回傳 ErrNotFound，他人收藏回傳 ErrNotOwner
func (s *Service) DeleteOwned(ctx context.Context, userID, giftID string) error {
	g, err := s.repo.GetByID(ctx, giftID)
	if err != nil {
		return err
	}
	if g.UserID != userID {
		common.LogWarn("拒絕刪除他人收藏",
			zap.String("gift_id", giftID),
			zap.String("user_id", userID),
		)
		return ErrNotOwner
	}
	return s.repo.Delete(ctx, giftID)
}

// DeleteAny 管理員刪除任意收藏
func (s *Service) DeleteAny(ctx context.Context, giftID string) error {
	if err := s.repo.Delete(ctx, giftID); err != nil {
		return err
	}
	common.LogInfo("管理員刪除收藏", zap.String("gift_id", giftID))
	return nil
}

// ListAllWithOwners 列出所有收藏並展開擁有者資訊，擁有者已不存在時 user 為 null
func (s *Service) ListAllWithOwners(ctx context.Context) ([]WithOwner, error) {
	gifts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]user.Summary)
	if s.users != nil {
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			owners[u.ID] = u.Summary()
		}
	}

	out := make([]WithOwner, 0, len(gifts))
	for _, g := range gifts {
		var owner *user.Summary
		if summary, ok := owners[g.UserID]; ok {
			owner = &summary
		}
		out = append(out, withOwner(g, owner))
	}
	return out, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

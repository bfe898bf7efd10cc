package admin

import (
	"context"
	"errors"
	"net/http"

	"gift-recommender/internal/api/handlers"
	giftService "gift-recommender/internal/core/gift"
	"gift-recommender/internal/core/user"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserService 管理端使用者查詢
type UserService interface {
	List(ctx context.Context) ([]user.User, error)
	Count(ctx context.Context) (int, error)
}

// GiftService 管理端收藏操作
type GiftService interface {
	ListAllWithOwners(ctx context.Context) ([]giftService.WithOwner, error)
	DeleteAny(ctx context.Context, giftID string) error
	Count(ctx context.Context) (int, error)
}

// Handler 管理員處理器
type Handler struct {
	users UserService
	gifts GiftService
}

func NewHandler(users UserService, gifts GiftService) *Handler {
	return &Handler{users: users, gifts: gifts}
}

// Users GET /api/admin/users
func (h *Handler) Users(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.serverError(c, "讀取使用者失敗", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Stats GET /api/admin/stats
func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	userCount, err := h.users.Count(ctx)
	if err != nil {
		h.serverError(c, "統計使用者失敗", err)
		return
	}
	giftCount, err := h.gifts.Count(ctx)
	if err != nil {
		h.serverError(c, "統計收藏失敗", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userCount":       userCount,
		"totalSavedGifts": giftCount,
		"message":         "Platform statistics retrieved successfully",
	})
}

// Gifts GET /api/admin/gifts
func (h *Handler) Gifts(c *gin.Context) {
	gifts, err := h.gifts.ListAllWithOwners(c.Request.Context())
	if err != nil {
		h.serverError(c, "讀取所有收藏失敗", err)
		return
	}
	c.JSON(http.StatusOK, gifts)
}

// DeleteGift DELETE /api/admin/gifts/:id
func (h *Handler) DeleteGift(c *gin.Context) {
	err := h.gifts.DeleteAny(c.Request.Context(), c.Param("id"))
	if errors.Is(err, giftService.ErrNotFound) {
		handlers.Error(c, common.ErrNotFound.WithMessage("Gift not found"))
		return
	}
	if err != nil {
		h.serverError(c, "管理員刪除收藏失敗", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Gift removed by admin"})
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	common.LogError(msg, zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
	handlers.Error(c, common.ErrInternalError)
}

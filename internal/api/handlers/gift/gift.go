package gift

import (
	"context"
	"errors"
	"net/http"

	"gift-recommender/internal/api/handlers"
	"gift-recommender/internal/api/middleware"
	giftService "gift-recommender/internal/core/gift"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service 使用者收藏
type Service interface {
	Save(ctx context.Context, userID string, in giftService.SaveInput) (giftService.Gift, error)
	ListByUser(ctx context.Context, userID string) ([]giftService.Gift, error)
	DeleteOwned(ctx context.Context, userID, giftID string) error
}

// Handler 收藏處理器
type Handler struct {
	gifts Service
}

func NewHandler(gifts Service) *Handler {
	return &Handler{gifts: gifts}
}

// Save POST /api/gifts
func (h *Handler) Save(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		handlers.Error(c, common.ErrUnauthorized)
		return
	}

	var in giftService.SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		handlers.Error(c, common.ErrInvalidRequest.WithMessage("All fields are required"))
		return
	}

	saved, err := h.gifts.Save(c.Request.Context(), u.ID, in)
	if err != nil {
		if errors.Is(err, giftService.ErrMissingFields) {
			handlers.Error(c, common.ErrInvalidRequest.WithMessage("All fields are required"))
			return
		}
		common.LogError("收藏失敗", zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Gift saved successfully",
		"gift":    saved,
	})
}

// List GET /api/gifts
func (h *Handler) List(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		handlers.Error(c, common.ErrUnauthorized)
		return
	}

	gifts, err := h.gifts.ListByUser(c.Request.Context(), u.ID)
	if err != nil {
		common.LogError("讀取收藏失敗", zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}
	c.JSON(http.StatusOK, gifts)
}

// Delete DELETE /api/gifts/:id
func (h *Handler) Delete(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		handlers.Error(c, common.ErrUnauthorized)
		return
	}

	err := h.gifts.DeleteOwned(c.Request.Context(), u.ID, c.Param("id"))
	switch {
	case errors.Is(err, giftService.ErrNotFound):
		handlers.Error(c, common.ErrNotFound.WithMessage("Gift not found"))
		return
	case errors.Is(err, giftService.ErrNotOwner):
		handlers.Error(c, common.ErrUnauthorized.WithMessage("Not authorized to delete this gift"))
		return
	case err != nil:
		common.LogError("刪除收藏失敗", zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Gift removed"})
}

package product

import (
	"context"
	"errors"
	"net/http"

	"gift-recommender/internal/api/handlers"
	productService "gift-recommender/internal/core/product"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service 商品查詢
type Service interface {
	GetByID(ctx context.Context, id string) (common.Product, error)
}

type Handler struct {
	products Service
}

func NewHandler(products Service) *Handler {
	return &Handler{products: products}
}

// Get GET /api/products/:id
func (h *Handler) Get(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, productService.ErrNotFound) {
		handlers.Error(c, common.ErrNotFound.WithMessage("Product not found"))
		return
	}
	if err != nil {
		common.LogError("讀取商品失敗", zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}
	c.JSON(http.StatusOK, p)
}

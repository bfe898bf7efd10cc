package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	aiservice "gift-recommender/internal/core/ai/service"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recommender 產生推薦清單
type Recommender interface {
	Generate(ctx context.Context, survey common.SurveyInput) ([]common.EnrichedGift, error)
}

// RecommendationHandler 推薦處理器
type RecommendationHandler struct {
	recommender Recommender
}

// NewRecommendationHandler 創建推薦處理器
func NewRecommendationHandler(recommender Recommender) *RecommendationHandler {
	return &RecommendationHandler{recommender: recommender}
}

type recommendationRequest struct {
	SurveyData json.RawMessage `json:"surveyData"`
}

// Generate POST /api/recommendations
func (h *RecommendationHandler) Generate(c *gin.Context) {
	requestID := RequestID(c)

	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效", zap.Error(err), zap.String("request_id", requestID))
		Error(c, common.ErrInvalidRequest.WithMessage("Survey data is required"))
		return
	}

	raw := bytes.TrimSpace(req.SurveyData)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		Error(c, common.ErrInvalidRequest.WithMessage("Survey data is required"))
		return
	}

	var survey common.SurveyInput
	if err := common.ParseJSONBytes(raw, &survey); err != nil {
		common.LogWarn("問卷格式無效", zap.Error(err), zap.String("request_id", requestID))
		Error(c, common.ErrInvalidRequest.WithMessage("Invalid survey data"))
		return
	}

	common.LogInfo("開始產生推薦",
		zap.String("request_id", requestID),
		zap.String("occasion", survey.Occasion),
		zap.String("budget", survey.Budget.String()),
	)

	gifts, err := h.recommender.Generate(c.Request.Context(), survey)
	if err != nil {
		if errors.Is(c.Request.Context().Err(), context.DeadlineExceeded) {
			Error(c, common.ErrGatewayTimeout)
			return
		}
		common.LogError("產生推薦失敗",
			zap.String("request_id", requestID),
			zap.Bool("provider_unavailable", errors.Is(err, aiservice.ErrProviderUnavailable)),
			zap.Error(err),
		)
		Error(c, common.ErrAIServiceError.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": gifts})
}

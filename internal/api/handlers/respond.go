package handlers

import (
	"gift-recommender/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID 取得請求 ID，沒有時產生一個並寫回響應標頭
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	id := uuid.New().String()
	c.Header("X-Request-ID", id)
	return id
}

// Error 以統一格式回傳錯誤並中止後續處理
func Error(c *gin.Context, err *common.CustomError) {
	c.AbortWithStatusJSON(err.Status, err.Response())
}

package middleware

import (
	"context"
	"strings"

	"gift-recommender/internal/core/auth"
	"gift-recommender/internal/core/user"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const currentUserKey = "current_user"

// TokenParser 驗證 bearer token
type TokenParser interface {
	Parse(token string) (auth.Identity, error)
}

// UserLoader 依 ID 載入使用者
type UserLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// Protect 要求有效的 bearer token，並將使用者放入 context
func Protect(tokens TokenParser, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") || strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) == "" {
			c.AbortWithStatusJSON(common.ErrUnauthorized.Status,
				common.ErrUnauthorized.WithMessage("Not authorized, no token").Response())
			return
		}

		identity, err := tokens.Parse(strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(common.ErrUnauthorized.Status,
				common.ErrUnauthorized.WithMessage("Not authorized, token failed").Response())
			return
		}

		u, err := users.GetByID(c.Request.Context(), identity.UserID)
		if err != nil {
			common.LogWarn("token 對應的使用者不存在",
				zap.String("user_id", identity.UserID),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(common.ErrUnauthorized.Status,
				common.ErrUnauthorized.WithMessage("Not authorized, token failed").Response())
			return
		}

		c.Set(currentUserKey, u)
		c.Next()
	}
}

// AdminOnly 需接在 Protect 之後
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(common.ErrUnauthorized.Status, common.ErrUnauthorized.Response())
			return
		}
		if !u.IsAdmin() {
			c.AbortWithStatusJSON(common.ErrForbidden.Status, common.ErrForbidden.Response())
			return
		}
		c.Next()
	}
}

// CurrentUser 取得 Protect 放入的使用者
func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return user.User{}, false
	}
	u, ok := v.(user.User)
	return u, ok
}

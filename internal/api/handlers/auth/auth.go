package auth

import (
	"context"
	"errors"
	"net/http"

	"gift-recommender/internal/api/handlers"
	"gift-recommender/internal/api/middleware"
	"gift-recommender/internal/core/user"
	"gift-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserService 註冊與登入
type UserService interface {
	Register(ctx context.Context, in user.RegisterInput) (user.User, error)
	Authenticate(ctx context.Context, email, password string) (user.User, error)
}

// TokenIssuer 簽發 token
type TokenIssuer interface {
	Issue(userID, role string) (string, error)
}

// Handler 身分驗證處理器
type Handler struct {
	users  UserService
	tokens TokenIssuer
}

func NewHandler(users UserService, tokens TokenIssuer) *Handler {
	return &Handler{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse 登入與註冊成功的回應
type authResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

var errMissingFields = common.ErrInvalidRequest.WithMessage("Please enter all fields")

// Register POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.Error(c, errMissingFields)
		return
	}

	u, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, user.ErrMissingFields):
		handlers.Error(c, errMissingFields)
		return
	case errors.Is(err, user.ErrUserExists):
		handlers.Error(c, common.ErrInvalidRequest.WithMessage("User already exists"))
		return
	case err != nil:
		common.LogError("註冊失敗", zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}

	h.respondWithToken(c, http.StatusCreated, u)
}

// Login POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handlers.Error(c, errMissingFields)
		return
	}

	u, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, user.ErrMissingFields):
		handlers.Error(c, errMissingFields)
		return
	case errors.Is(err, user.ErrInvalidCredentials):
		handlers.Error(c, common.ErrUnauthorized.WithMessage("Invalid credentials"))
		return
	case err != nil:
		common.LogError("登入失敗", zap.String("request_id", handlers.RequestID(c)), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}

	h.respondWithToken(c, http.StatusOK, u)
}

// Profile GET /api/users/profile
func (h *Handler) Profile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		handlers.Error(c, common.ErrUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
	})
}

func (h *Handler) respondWithToken(c *gin.Context, status int, u user.User) {
	token, err := h.tokens.Issue(u.ID, u.Role)
	if err != nil {
		common.LogError("簽發 token 失敗", zap.String("user_id", u.ID), zap.Error(err))
		handlers.Error(c, common.ErrInternalError)
		return
	}

	c.JSON(status, authResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Token:    token,
	})
}

package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"gift-recommender/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput 註冊資料
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register 建立一般使用者
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	return s.create(ctx, in, RoleUser)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return User{}, ErrMissingFields
	}

	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return User{}, ErrUserExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, User{
		ID:        common.GenerateUUID(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return User{}, err
	}

	common.LogInfo("使用者已建立",
		zap.String("user_id", created.ID),
		zap.String("role", created.Role),
	)
	return sanitize(created), nil
}

// Authenticate 以 email 與密碼登入
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrMissingFields
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return sanitize(u), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	return sanitize(u), nil
}

// List 回傳所有使用者（不含密碼）
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i] = sanitize(users[i])
	}
	return users, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// EnsureAdmin 管理員不存在時建立，已存在則回傳既有帳號
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) (User, bool, error) {
	existing, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err == nil {
		return sanitize(existing), false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, false, err
	}

	created, err := s.create(ctx, in, RoleAdmin)
	if err != nil {
		return User{}, false, err
	}
	return created, true, nil
}

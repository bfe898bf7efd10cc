package gift

import (
	"errors"
	"time"

	"gift-recommender/internal/core/user"
)

var (
	ErrNotFound      = errors.New("gift not found")
	ErrNotOwner      = errors.New("not authorized to delete this gift")
	ErrMissingFields = errors.New("all fields are required")
)

// Gift 使用者收藏的禮物
type Gift struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WithOwner 管理端使用，user 欄位展開為擁有者資訊
type WithOwner struct {
	ID          string        `json:"id"`
	Owner       *user.Summary `json:"user"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       string        `json:"price"`
	Category    string        `json:"category"`
	ImageURL    string        `json:"imageUrl"`
	Reason      string        `json:"reason"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func withOwner(g Gift, owner *user.Summary) WithOwner {
	return WithOwner{
		ID:          g.ID,
		Owner:       owner,
		Name:        g.Name,
		Description: g.Description,
		Price:       g.Price,
		Category:    g.Category,
		ImageURL:    g.ImageURL,
		Reason:      g.Reason,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

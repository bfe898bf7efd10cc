package user

import (
	"errors"
	"time"
)

// 角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("please enter all fields")
)

// User 使用者
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin 是否為管理員
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary 只包含公開身分資訊
type Summary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary 轉換為公開身分資訊
func (u User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, Email: u.Email}
}

func sanitize(u User) User {
	u.Password = ""
	return u
}

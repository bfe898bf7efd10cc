package common

import (
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Code    string `json:"code"`    // 錯誤代碼
	Message string `json:"message"` // 錯誤信息
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 能看到原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Response 轉換為對外的錯誤響應，不帶原始錯誤細節
func (e *CustomError) Response() ErrorResponse {
	return ErrorResponse{Code: e.Code, Message: e.Message}
}

// WithMessage 複製一份錯誤並替換訊息
func (e *CustomError) WithMessage(message string) *CustomError {
	clone := *e
	clone.Message = message
	return &clone
}

// Wrap 複製一份錯誤並附上原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	clone := *e
	clone.Err = err
	return &clone
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeUnauthorized    = "UNAUTHORIZED"      // 401
	ErrCodeForbidden       = "FORBIDDEN"         // 403
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeTooLarge        = "PAYLOAD_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError  = "INTERNAL_ERROR"  // 500
	ErrCodeGatewayTimeout = "GATEWAY_TIMEOUT" // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest, nil)
	ErrUnauthorized    = NewError(ErrCodeUnauthorized, "Not authorized", http.StatusUnauthorized, nil)
	ErrForbidden       = NewError(ErrCodeForbidden, "Not authorized as an admin", http.StatusForbidden, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "Resource not found", http.StatusNotFound, nil)
	ErrPayloadTooLarge = NewError(ErrCodeTooLarge, "Request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "Too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError  = NewError(ErrCodeInternalError, "Server error", http.StatusInternalServerError, nil)
	ErrGatewayTimeout = NewError(ErrCodeGatewayTimeout, "Request timeout", http.StatusGatewayTimeout, nil)

	// 業務錯誤
	ErrCacheFull      = NewError("CACHE_FULL", "Cache is full", http.StatusServiceUnavailable, nil)
	ErrCacheMiss      = NewError("CACHE_MISS", "Cache miss", http.StatusNotFound, nil)
	ErrAIServiceError = NewError("AI_SERVICE_ERROR", "Failed to generate recommendations", http.StatusInternalServerError, nil)
)

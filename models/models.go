package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"merchantassistant/utils"
)

// --- JWT & Auth ---

// JwtClaims binds a session token to one merchant.
type JwtClaims struct {
	MerchantID string `json:"merchantId"`
	jwt.RegisteredClaims
}

// SessionRequest is the body of POST /api/session.
type SessionRequest struct {
	MerchantID string `json:"merchant_id" validate:"required,max=64"`
	AccessKey  string `json:"access_key" validate:"max=256"`
}

// SessionResponse carries a freshly issued token.
type SessionResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expires_at"`
	MerchantID   string    `json:"merchant_id"`
	MerchantName string    `json:"merchant_name"`
}

// --- Core Models ---

// Merchant is a business receiving orders through the platform.
type Merchant struct {
	ID       string     `json:"merchant_id"`
	Name     string     `json:"name"`
	JoinDate *time.Time `json:"join_date,omitempty"`
	CityID   *int       `json:"city_id,omitempty"`
}

// MerchantsResponse is the structure for GET /api/merchants.
type MerchantsResponse struct {
	Merchants  []Merchant        `json:"merchants"`
	Pagination *utils.Pagination `json:"pagination"`
}

// --- API Request/Response Structs ---

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	MerchantID string `json:"merchant_id" validate:"required,max=64"`
	Message    string `json:"message" validate:"max=2000"`
}

// ErrorResponse is returned by every failing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Database string `json:"database"`
}

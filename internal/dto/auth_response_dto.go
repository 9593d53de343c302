package dto

import "time"

// LoginSuccessResponse is returned after a completed Google login with the
// application session token for subsequent API calls.
type LoginSuccessResponse struct {
	Token       string    `json:"token"`
	TokenType   string    `json:"tokenType"` // Always "Bearer"
	ExpiresAt   time.Time `json:"expiresAt"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
}

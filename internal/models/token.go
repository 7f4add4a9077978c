package models

type SessionToken struct {
	SessionID string `json:"-"`
	Token     string `json:"session_token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

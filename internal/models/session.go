package models

import "time"

// OTPStatus is the verification state of a session.
type OTPStatus string

const (
	OTPStatusNoChallenge OTPStatus = "no_challenge"
	OTPStatusPending     OTPStatus = "pending"
	OTPStatusVerified    OTPStatus = "verified"
)

// SessionState is everything the service keeps per session.
type SessionState struct {
	SessionID string        `json:"session_id" dynamodbav:"session_id"`
	Status    OTPStatus     `json:"status" dynamodbav:"status"`
	Challenge *OTPChallenge `json:"challenge,omitempty" dynamodbav:"challenge,omitempty"`
	CreatedAt time.Time     `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt time.Time     `json:"expires_at" dynamodbav:"expires_at"`
}

func (s *SessionState) GetPK() string {
	return "SESSION#" + s.SessionID
}

func (s *SessionState) GetSK() string {
	return "STATE"
}

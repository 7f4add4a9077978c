package models

import "time"

// OTPChallenge is the single pending code of a session. Only the bcrypt hash
// of the code is kept.
type OTPChallenge struct {
	ID        string    `json:"id" dynamodbav:"id"`
	CodeHash  string    `json:"code_hash" dynamodbav:"code_hash"`
	Recipient string    `json:"recipient" dynamodbav:"recipient"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}

// Expired reports whether the challenge had a deadline that has passed.
func (c *OTPChallenge) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

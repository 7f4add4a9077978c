package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qcom/passguard/internal/models"
)

// Sender delivers a code to an address. It may block on the network.
type Sender interface {
	Send(ctx context.Context, to, code string) error
}

type Option func(*Verifier)

// WithTTL makes challenges expire ttl after they are issued. Zero, the
// default, means a challenge stays valid until it is verified or replaced.
func WithTTL(ttl time.Duration) Option {
	return func(v *Verifier) { v.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// WithCodeSource replaces the random code generator.
func WithCodeSource(fn func() (string, error)) Option {
	return func(v *Verifier) { v.newCode = fn }
}

type Verifier struct {
	sender  Sender
	hasher  Hasher
	ttl     time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

func NewVerifier(sender Sender, hasher Hasher, opts ...Option) *Verifier {
	v := &Verifier{
		sender:  sender,
		hasher:  hasher,
		now:     time.Now,
		newCode: func() (string, error) { return GenerateCode(CodeLength) },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// SendRequest issues a fresh code, replacing any pending one, and hands it
// to the Sender. The returned state is Pending whether or not delivery
// succeeded. The error is non-nil only when no challenge could be created,
// in which case the input state is returned unchanged. Callers that persist
// the state should use Issue and Deliver so the challenge is stored before
// the code leaves the process.
func (v *Verifier) SendRequest(ctx context.Context, state State, email string) (State, SendResult, error) {
	next, code, err := v.Issue(state, email)
	if err != nil {
		return state, SendResult{}, err
	}
	return next, v.Deliver(ctx, email, code), nil
}

// Issue creates a Pending state with a new challenge for email and returns
// it with the plain code. Nothing is sent.
func (v *Verifier) Issue(state State, email string) (State, string, error) {
	code, err := v.newCode()
	if err != nil {
		return state, "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	hash, err := v.hasher.Hash(code)
	if err != nil {
		return state, "", err
	}

	now := v.now()
	challenge := &models.OTPChallenge{
		ID:        uuid.New().String(),
		CodeHash:  hash,
		Recipient: email,
		CreatedAt: now,
	}
	if v.ttl > 0 {
		challenge.ExpiresAt = now.Add(v.ttl)
	}

	return State{Status: models.OTPStatusPending, Challenge: challenge}, code, nil
}

// Deliver sends code to email. Transport errors are reported in the result.
func (v *Verifier) Deliver(ctx context.Context, email, code string) SendResult {
	if err := v.sender.Send(ctx, email, code); err != nil {
		return SendResult{Sent: false, Err: err}
	}
	return SendResult{Sent: true}
}

// Verify compares code with the pending challenge. On a match the challenge
// is consumed and the state becomes Verified. A mismatch leaves the state
// untouched so the caller may retry. Without a challenge Verify always
// fails; an expired challenge fails and is discarded.
func (v *Verifier) Verify(state State, code string) (State, bool) {
	if !state.HasChallenge() {
		return state, false
	}

	if state.Challenge.Expired(v.now()) {
		return NewState(), false
	}

	if !v.hasher.Verify(state.Challenge.CodeHash, code) {
		return state, false
	}

	return State{Status: models.OTPStatusVerified}, true
}

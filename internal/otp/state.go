// Package otp implements the emailed one-time passcode flow as a state
// machine over an explicit State value. Callers own persistence.
package otp

import "github.com/qcom/passguard/internal/models"

// State is the verification state of one session.
//
//	NoChallenge --SendRequest--> Pending
//	Pending     --SendRequest--> Pending   (code replaced)
//	Pending     --Verify(ok)---> Verified  (challenge removed)
//	Pending     --Verify(bad)--> Pending
//	Verified    --SendRequest--> Pending
type State struct {
	Status    models.OTPStatus
	Challenge *models.OTPChallenge
}

// NewState returns the initial state.
func NewState() State {
	return State{Status: models.OTPStatusNoChallenge}
}

// HasChallenge must be checked before Verify.
func (s State) HasChallenge() bool {
	return s.Challenge != nil
}

// SendResult reports the outcome of handing a code to the Sender. A failed
// send does not undo the new challenge.
type SendResult struct {
	Sent bool
	Err  error
}

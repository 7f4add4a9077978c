// Package password scores password strength, estimates entropy and
// generates random passwords.
package password

import "errors"

const (
	MinLength = 12

	// Entropy thresholds in bits.
	LowEntropyThreshold    = 50.0
	StrongEntropyThreshold = 60.0

	// RepeatRunLength is the shortest run of one character that draws a warning.
	RepeatRunLength = 4

	DefaultLength = 16
)

// SpecialCharacters is the punctuation set that satisfies the special
// character rule. The generator alphabet includes it as well.
const SpecialCharacters = "!@#$%^&*()_+={}:;'<>?,./\"\\|~`-"

// CommonPasswords is matched against the lower-cased password.
var CommonPasswords = map[string]struct{}{
	"password": {},
	"123456":   {},
	"qwerty":   {},
	"admin":    {},
	"letmein":  {},
	"abc123":   {},
	"iloveyou": {},
	"monkey":   {},
}

var ErrInvalidLength = errors.New("password length must be positive")

// Feedback lines, in the order the rules run.
const (
	FeedbackTooShort        = "Password should be at least 12 characters long."
	FeedbackMixedCase       = "Include both uppercase and lowercase letters."
	FeedbackNoDigit         = "Add at least one number (0-9)."
	FeedbackNoSpecial       = "Include at least one special character (!@#$%^&*...)."
	FeedbackCommon          = "Avoid common passwords like 'password' or '123456'."
	FeedbackRepeated        = "Avoid repeated characters or patterns like 'aaaa' or '1111'."
	FeedbackLowEntropy      = "Password entropy is low, try increasing randomness."
	FeedbackStrongSummary   = "Strong Password!"
	FeedbackModerateSummary = "Moderate Password - Consider adding more security features."
	FeedbackWeakSummary     = "Weak Password - Improve it using the suggestions above."
)

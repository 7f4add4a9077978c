package password

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/qcom/passguard/internal/models"
)

// Evaluate runs the scoring rules and advisory checks in order and
// classifies the result. It accepts any string, including the empty one.
func Evaluate(password string) models.StrengthResult {
	score := 0
	feedback := make([]string, 0, 8)

	check := func(ok bool, msg string) {
		if ok {
			score++
			return
		}
		feedback = append(feedback, msg)
	}

	check(utf8.RuneCountInString(password) >= MinLength, FeedbackTooShort)
	check(hasMixedCase(password), FeedbackMixedCase)
	check(strings.IndexFunc(password, unicode.IsDigit) >= 0, FeedbackNoDigit)
	check(strings.ContainsAny(password, SpecialCharacters), FeedbackNoSpecial)
	check(!IsCommon(password), FeedbackCommon)

	if hasRepeatRun(password, RepeatRunLength) {
		feedback = append(feedback, FeedbackRepeated)
	}

	entropy := EstimateEntropy(password)
	if entropy < LowEntropyThreshold {
		feedback = append(feedback, FeedbackLowEntropy)
	}

	rating := Classify(score, entropy)
	feedback = append(feedback, summary(rating))

	return models.StrengthResult{
		Score:    score,
		Feedback: feedback,
		Entropy:  entropy,
		Rating:   rating,
	}
}

// Classify maps a score and entropy to a rating.
func Classify(score int, entropy float64) models.Rating {
	switch {
	case score == 5 && entropy >= StrongEntropyThreshold:
		return models.RatingStrong
	case score >= 3:
		return models.RatingModerate
	default:
		return models.RatingWeak
	}
}

// IsCommon reports whether the password is on the deny-list, ignoring case.
func IsCommon(password string) bool {
	_, ok := CommonPasswords[strings.ToLower(password)]
	return ok
}

func summary(r models.Rating) string {
	switch r {
	case models.RatingStrong:
		return FeedbackStrongSummary
	case models.RatingModerate:
		return FeedbackModerateSummary
	default:
		return FeedbackWeakSummary
	}
}

// hasMixedCase reports whether s has both an upper and a lower case
// letter. Only ASCII letters count.
func hasMixedCase(s string) bool {
	var upper, lower bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		}
		if upper && lower {
			return true
		}
	}
	return false
}

// hasRepeatRun reports a run of n identical characters. Newlines never
// start or extend a run.
func hasRepeatRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		switch {
		case r == '\n':
			run = 0
		case run > 0 && r == prev:
			run++
		default:
			run = 1
		}
		prev = r
		if run >= n {
			return true
		}
	}
	return false
}

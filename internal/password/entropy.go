package password

import (
	"math"
	"unicode/utf8"

	"github.com/samber/lo"
)

// EstimateEntropy returns length * log2(distinct characters) in bits. Only
// the symbols actually used count towards the pool, so permuting a password
// never changes the result. Passwords with fewer than two distinct
// characters have zero entropy.
func EstimateEntropy(password string) float64 {
	distinct := len(lo.Uniq([]rune(password)))
	if distinct <= 1 {
		return 0
	}

	return float64(utf8.RuneCountInString(password)) * math.Log2(float64(distinct))
}

package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/samber/lo"
)

const (
	letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits  = "0123456789"
)

// Alphabet is the generator's symbol set: ASCII letters, digits and
// SpecialCharacters, without duplicates.
var Alphabet = string(lo.Uniq([]rune(letters + digits + SpecialCharacters)))

// Generate returns a password of exactly length characters, each drawn
// uniformly from Alphabet with crypto/rand. The result is not checked
// against Evaluate.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	max := big.NewInt(int64(len(Alphabet)))

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		sb.WriteByte(Alphabet[n.Int64()])
	}

	return sb.String(), nil
}

package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	codeMin = 1_000_000_000
	// codeSpan is the number of 10-digit values with a nonzero leading digit.
	codeSpan = 9_000_000_000
)

// NewVerificationCode returns a uniformly random 10-digit decimal code.
func NewVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

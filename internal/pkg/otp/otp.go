package otp

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// Digits is the length of every one-time code issued by the API.
const Digits = 6

var upper = big.NewInt(1_000_000) // 10^Digits

// Generate returns a uniformly random zero-padded decimal code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, upper)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", Digits, n.Int64()), nil
}

// Equal compares a stored and a submitted code in constant time.
func Equal(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

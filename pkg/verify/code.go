package verify

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/msga/verify-gate/pkg/domain"
)

// NewCode mints a uniform random six-digit verification code.
func NewCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < domain.CodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n), nil
}

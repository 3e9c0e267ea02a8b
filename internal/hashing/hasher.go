package hashing

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"adminplatform/internal/apperrors"
)

// Hasher produces and verifies one-way credential hashes.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, hashed string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given work factor. Costs below
// bcrypt's minimum fall back to the default cost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		// Never include the plaintext in the error chain.
		return "", fmt.Errorf("%w: %v", apperrors.ErrHashing, err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}

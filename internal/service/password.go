package service

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured
const DefaultBcryptCost = 10

// MaxPasswordBytes is the longest secret bcrypt will hash
const MaxPasswordBytes = 72

// PasswordHasher hashes and compares user secrets
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
	// CompareDummy burns the same time as a real comparison. Used when the account does not exist.
	CompareDummy(plain string)
}

type bcryptHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a bcrypt hasher. Out of range costs fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("smartpass-dummy-secret"), cost)
	return &bcryptHasher{cost: cost, dummy: dummy}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", validationError("password is empty")
	}
	if len(plain) > MaxPasswordBytes {
		return "", validationError("password must be at most %d bytes", MaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *bcryptHasher) Compare(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (h *bcryptHasher) CompareDummy(plain string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plain))
}

package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndCompare(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "s3cret" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("Hash() = %q, want a bcrypt hash", hash)
	}
	if !h.Compare(hash, "s3cret") {
		t.Error("Compare() with the right password = false")
	}
	if h.Compare(hash, "wrong") {
		t.Error("Compare() with a wrong password = true")
	}
	if h.Compare("", "s3cret") {
		t.Error("Compare() with an empty hash = true")
	}
}

func TestPasswordHasher_RejectsEmpty(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(""); err == nil {
		t.Error("Hash(\"\") expected error")
	}
}

func TestPasswordHasher_CostFallback(t *testing.T) {
	h := NewPasswordHasher(99).(*bcryptHasher)
	if h.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", h.cost, DefaultBcryptCost)
	}
}

func TestPasswordHasher_CompareDummy(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	// must not panic and must not depend on a stored account
	h.CompareDummy("anything")
}

func TestPasswordHasher_RejectsOverlong(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)
	if _, err := h.Hash(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Fatalf("Hash() at the limit error = %v", err)
	}
	_, err := h.Hash(strings.Repeat("a", MaxPasswordBytes+1))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Hash() over the limit error = %v, want ErrValidation", err)
	}
}

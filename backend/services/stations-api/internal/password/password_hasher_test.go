package password

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("admin123")
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := h.Compare(hash, "admin123"); err != nil {
		t.Errorf("Compare() matching password: %v", err)
	}
	if err := h.Compare(hash, "wrong"); !errors.Is(err, ErrMismatch) {
		t.Errorf("Compare() wrong password = %v, want ErrMismatch", err)
	}
}

func TestBcryptHasherRejectsEmpty(t *testing.T) {
	if _, err := NewBcryptHasher(bcrypt.MinCost).Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestNewBcryptHasherCost(t *testing.T) {
	if got := NewBcryptHasher(0).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default", got)
	}
	if got := NewBcryptHasher(99).cost; got != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want default", got)
	}
	if got := NewBcryptHasher(bcrypt.MinCost).cost; got != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", got, bcrypt.MinCost)
	}
}

package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(bcrypt.MinCost)
}

// =========================================================================
// Hash
// =========================================================================

func TestHash_OutputLooksBcrypt(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("password123")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Hash() does not look like a bcrypt hash: %q", hash)
	}
}

func TestHash_SaltIsRandom(t *testing.T) {
	ps := newTestPasswordService()

	a, _ := ps.Hash("same-password")
	b, _ := ps.Hash("same-password")
	if a == b {
		t.Error("Hash() produced identical hashes for the same password")
	}
}

func TestHash_LengthLimit(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("Hash() should accept 72 bytes, got %v", err)
	}
	if _, err := ps.Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("Hash() error = %v, want ErrPasswordTooLong", err)
	}
}

// =========================================================================
// Verify
// =========================================================================

func TestVerify(t *testing.T) {
	ps := newTestPasswordService()
	hash, err := ps.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if err := ps.Verify(hash, "correct-horse-battery-staple"); err != nil {
		t.Errorf("Verify(correct) = %v", err)
	}
	if err := ps.Verify(hash, "wrong"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify(wrong) = %v, want ErrInvalidPassword", err)
	}
	if err := ps.Verify(hash, ""); err == nil {
		t.Error("Verify(empty) should fail")
	}
}

func TestVerify_EmptyHashNeverMatches(t *testing.T) {
	ps := newTestPasswordService()

	if err := ps.Verify("", ""); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Verify(\"\", \"\") = %v, want ErrInvalidPassword", err)
	}
}

func TestVerify_GarbageHash(t *testing.T) {
	ps := newTestPasswordService()

	if err := ps.Verify("not-a-valid-bcrypt-hash", "password"); err == nil {
		t.Fatal("Verify() should fail for a garbage hash")
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	for _, pw := range []string{"hola123", "p@$$w0rd!#%", "contraseña-密码", "  espacios  "} {
		hash, err := ps.Hash(pw)
		if err != nil {
			t.Fatalf("Hash(%q) error = %v", pw, err)
		}
		if err := ps.Verify(hash, pw); err != nil {
			t.Errorf("Verify() failed for %q: %v", pw, err)
		}
	}
}

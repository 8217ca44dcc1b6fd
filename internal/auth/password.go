package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for stored passwords.
const defaultCost = 12

// maxPasswordBytes is bcrypt's input limit; longer input would be silently truncated.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for input over 72 bytes.
var ErrPasswordTooLong = errors.New("auth: password must be 72 bytes or fewer")

// ErrInvalidPassword is returned by Verify when the password does not match.
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService hashes and checks passwords with bcrypt.
// The cost is a field so tests can drop it to the bcrypt minimum.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with cost 12.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Other packages' tests pass bcrypt.MinCost (4) to keep hashing fast.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of plaintext, salt and cost included.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify returns nil when plaintext matches hash. An empty hash never
// matches, which keeps the guest and GitHub-only accounts out of password login.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if hash == "" {
		return ErrInvalidPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

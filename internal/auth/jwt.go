// Package auth issues and checks the credentials that identify a caller.
//
// IDENTITY FLOW:
//  1. POST /api/login (or the GitHub callback) verifies who the caller is
//  2. The server signs a JWT whose "sub" claim is the numeric user id
//  3. The client sends it back as "Authorization: Bearer <jwt>" or in the
//     "token" cookie
//  4. OptionalAuth resolves the id into the request context; anything that
//     fails to verify resolves to the shared guest instead of a 401
//
// Tokens are stateless: verification needs only the secret, never the database.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "vitaltrack"

// DefaultTokenTTL is how long an issued token stays valid unless configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenService signs and verifies HS256 tokens with one shared secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret must be at least 16
// characters; a non-positive ttl means DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the lifetime of tokens issued by Generate.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims is the JWT payload: "sub" carries the user id, "jti" a unique token id.
type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a token for userID that expires after the configured TTL.
func (s *TokenService) Generate(userID int64) (string, error) {
	return s.GenerateWithDuration(userID, s.ttl)
}

// GenerateWithDuration signs a token with a custom lifetime.
// Tests use a negative duration to get an already-expired token.
func (s *TokenService) GenerateWithDuration(userID int64, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        xid.New().String(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate verifies signature, algorithm, issuer and expiry and returns the
// user id in the subject claim.
//
// Only HS256 is accepted, which rules out the "alg: none" downgrade.
func (s *TokenService) Validate(tokenStr string) (int64, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, fmt.Errorf("auth: token expired")
		}
		return 0, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("auth: invalid token claims")
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("auth: token subject %q is not a user id", c.Subject)
	}
	return userID, nil
}

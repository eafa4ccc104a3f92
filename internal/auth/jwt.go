// Package auth issues and checks the tokens that bind a client to one bill.
//
// A token names the bill ID and generation it was issued for. Once the bill
// is reset or replaced, old tokens still validate but no longer match the
// active generation, so clients holding them are told to refresh.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("session token required")
)

// SessionTokens handles session token generation and validation.
type SessionTokens struct {
	secretKey     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

// Claims represents the custom JWT claims for a bill session.
type Claims struct {
	BillID     string `json:"bill_id"`
	Generation uint64 `json:"gen"`
	jwt.RegisteredClaims
}

// NewSessionTokens creates a token manager. An empty secret gets a random
// one, which invalidates all tokens when the process restarts.
func NewSessionTokens(secretKey string, tokenDuration time.Duration) (*SessionTokens, error) {
	key := []byte(secretKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
	}
	return &SessionTokens{
		secretKey:     key,
		tokenDuration: tokenDuration,
		now:           time.Now,
	}, nil
}

// Issue creates a token for the given bill generation.
func (m *SessionTokens) Issue(billID string, generation uint64) (string, error) {
	now := m.now()
	claims := &Claims{
		BillID:     billID,
		Generation: generation,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   billID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate parses and validates a token, returning the claims if valid.
func (m *SessionTokens) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.BillID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

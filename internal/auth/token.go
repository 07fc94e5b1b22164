package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/commune-social/commune/internal/shared"
)

// Claims is the set of statements embedded in a signed bearer token. The
// standard claims carry expiry; AccountID identifies the bearer.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64 `json:"account_id"`
}

// TokenManager issues and verifies signed bearer tokens. The secret and TTL
// are fixed at construction and never mutated.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed HS256 token asserting accountID until now+TTL.
func (m *TokenManager) Issue(accountID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		AccountID: accountID,
	})
	return token.SignedString(m.secret)
}

// Verify checks the token signature and expiry and returns the embedded
// account id. Verification is all-or-nothing: any malformed, tampered or
// expired token yields shared.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, shared.ErrInvalidToken
	}
	if !token.Valid || claims.AccountID == 0 {
		return 0, shared.ErrInvalidToken
	}
	return claims.AccountID, nil
}

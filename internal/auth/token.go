package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when a caller does not request an expiry.
const DefaultTokenTTL = 600 * time.Second

// ErrInvalidToken covers bad signatures, malformed payloads and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies the signed user tokens. One symmetric
// secret, HS256 only, no rotation; expiry is the sole revocation mechanism.
type TokenManager struct {
	secret []byte
	maxTTL time.Duration
}

// NewTokenManager builds a new manager. maxTTL bounds caller-requested
// expiries; zero or negative disables the bound.
func NewTokenManager(secret string, maxTTL time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), maxTTL: maxTTL}
}

// Claims is the token payload. The user claim is required; nothing else in
// the payload is trusted.
type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

// MaxTTL returns the upper bound for requested token lifetimes.
func (tm *TokenManager) MaxTTL() time.Duration {
	return tm.maxTTL
}

// Issue signs a token carrying {user, exp = now + ttl}. A non-positive ttl
// falls back to DefaultTokenTTL.
func (tm *TokenManager) Issue(user string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	claims := &Claims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Verify checks signature and expiry and returns the embedded user claim.
// A missing or empty user claim is a verification failure, not a panic at
// some later access.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.User == "" {
		return "", ErrInvalidToken
	}
	return claims.User, nil
}

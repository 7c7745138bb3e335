package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret means no signing secret is configured. Tokens are never
	// issued unsigned or weakly signed.
	ErrNoSecret = errors.New("auth: signing secret not configured")

	// ErrTokenExpired means the token's signature was fine but its
	// lifetime has passed.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrTokenInvalid means the token is tampered, malformed, or signed
	// with the wrong key or method.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Claims wraps jwt.RegisteredClaims with the user's email. The user id
// travels in the registered Subject field.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the Subject back into the numeric user id.
func (c *Claims) UserID() int64 {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// TokenIssuer issues and verifies HS256 session tokens. The secret and
// lifetime come from process configuration, injected once at startup.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Configured reports whether a signing secret is present.
func (t *TokenIssuer) Configured() bool {
	return len(t.secret) > 0
}

// Issue signs a token asserting {userID, email} with iat now and exp now+ttl.
func (t *TokenIssuer) Issue(userID int64, email string) (string, error) {
	if !t.Configured() {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the decoded claims. It
// distinguishes ErrTokenExpired from ErrTokenInvalid so callers can log the
// two differently; both are rejected the same way.
func (t *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	if !t.Configured() {
		return nil, ErrNoSecret
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	// A token without an expiry never passes.
	if claims.ExpiresAt == nil {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}

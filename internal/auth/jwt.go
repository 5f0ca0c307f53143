package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the typ claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrWrongTokenType is returned when a refresh token is presented as an access token or vice versa.
var ErrWrongTokenType = errors.New("unexpected token type")

// Claims defines the payload encoded for authenticated users.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
}

// JWTManager handles issuing and verifying HMAC signed tokens.
type JWTManager struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
}

// NewJWTManager constructs a manager with the given secret and token lifetimes.
func NewJWTManager(secret string, ttl, refreshTTL time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, refreshTTL: refreshTTL}
}

// GenerateToken creates a short-lived access token for the provided subject.
func (m *JWTManager) GenerateToken(subject, email, role string) (string, error) {
	return m.sign(subject, email, role, TokenTypeAccess, m.ttl)
}

// GenerateRefreshToken creates a long-lived token only accepted by the refresh endpoint.
func (m *JWTManager) GenerateRefreshToken(subject, email, role string) (string, error) {
	return m.sign(subject, email, role, TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) sign(subject, email, role, typ string, ttl time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", errors.New("jwt secret must not be empty")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
		Role:  role,
		Type:  typ,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	return signed, nil
}

// ParseToken verifies an access token's signature and payload integrity.
func (m *JWTManager) ParseToken(token string) (*Claims, error) {
	return m.parse(token, TokenTypeAccess)
}

// ParseRefreshToken verifies a refresh token.
func (m *JWTManager) ParseRefreshToken(token string) (*Claims, error) {
	return m.parse(token, TokenTypeRefresh)
}

func (m *JWTManager) parse(token, typ string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Type != typ {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// Remaining reports how long the token stays valid, zero once expired.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := c.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

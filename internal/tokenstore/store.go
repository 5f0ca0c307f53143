package tokenstore

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned when a reset token is unknown, expired or already used.
var ErrTokenNotFound = errors.New("token not found or expired")

// Store tracks revoked access tokens and single-use password reset tokens.
type Store interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	SaveResetToken(ctx context.Context, token string, userID int64, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (int64, error)
}

const (
	revokedPrefix = "gdpr:revoked:"
	resetPrefix   = "gdpr:reset:"
)

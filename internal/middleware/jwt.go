package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/helha/gdpr-app/internal/auth"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/service"
)

// RevocationChecker reports whether a token id was revoked by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AccountLoader returns the stored account behind a token subject.
// It fails with service.ErrInvalidToken for unknown subjects and service.ErrAccountDisabled for inactive ones.
type AccountLoader interface {
	CurrentAccount(ctx context.Context, subject string) (*entity.User, error)
}

// JWT validates bearer access tokens, reloads the account and stores its current
// identity and role in the request context. A nil revocations skips the logout check.
func JWT(manager *authpkg.JWTManager, revocations RevocationChecker, accounts AccountLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return deny(c, http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				return deny(c, http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := manager.ParseToken(strings.TrimSpace(parts[1]))
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(c.Request().Context(), claims.ID)
				if err != nil {
					return err
				}
				if revoked {
					return deny(c, http.StatusUnauthorized, "token has been revoked")
				}
			}

			user, err := accounts.CurrentAccount(c.Request().Context(), claims.Subject)
			switch {
			case errors.Is(err, service.ErrAccountDisabled):
				return deny(c, http.StatusUnauthorized, "account is disabled")
			case errors.Is(err, service.ErrInvalidToken):
				return deny(c, http.StatusUnauthorized, "invalid token")
			case err != nil:
				return err
			}

			c.Set(ContextKeyUserID, strconv.FormatInt(user.ID, 10))
			c.Set(ContextKeyUserEmail, user.Email)
			c.Set(ContextKeyUserRole, user.Role)
			c.Set(ContextKeyClaims, claims)

			return next(c)
		}
	}
}

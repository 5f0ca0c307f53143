package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, 2*time.Hour)
	token, err := manager.GenerateToken("1", "user@example.com", "ADMIN")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "1" || claims.Email != "user@example.com" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" || claims.Type != TokenTypeAccess {
		t.Fatalf("expected jti and access type, got %+v", claims)
	}
	if rem := claims.Remaining(time.Now()); rem <= 0 || rem > time.Hour {
		t.Fatalf("unexpected remaining lifetime: %s", rem)
	}

	if _, err := manager.ParseToken(token + "tampered"); err == nil {
		t.Fatalf("expected parse error for tampered token")
	}
}

func TestJWTManager_TokenTypes(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour, 2*time.Hour)
	access, err := manager.GenerateToken("1", "user@example.com", "CLIENT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refresh, err := manager.GenerateRefreshToken("1", "user@example.com", "CLIENT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := manager.ParseToken(refresh); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected refresh token to be rejected as access token, got %v", err)
	}
	if _, err := manager.ParseRefreshToken(access); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected access token to be rejected as refresh token, got %v", err)
	}
	claims, err := manager.ParseRefreshToken(refresh)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if rem := claims.Remaining(time.Now()); rem <= time.Hour {
		t.Fatalf("expected refresh lifetime above one hour, got %s", rem)
	}
}

func TestJWTManager_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret", time.Hour, time.Hour).GenerateToken("1", "user@example.com", "CLIENT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewJWTManager("other", time.Hour, time.Hour).ParseToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestJWTManager_EmptySecret(t *testing.T) {
	manager := NewJWTManager("", time.Hour, time.Hour)
	if _, err := manager.GenerateToken("user", "user@example.com", "CLIENT"); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
}

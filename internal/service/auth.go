package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/helha/gdpr-app/internal/auth"
	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
	"github.com/helha/gdpr-app/internal/tokenstore"
)

const (
	tokenTypeBearer = "Bearer"
	resetTokenTTL   = 24 * time.Hour
)

// AuthService coordinates credential validation, token issuance and password recovery.
type AuthService struct {
	users    repository.UsersRepository
	roles    repository.RolesRepository
	jwt      *auth.JWTManager
	tokens   tokenstore.Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, roles repository.RolesRepository, jwtManager *auth.JWTManager, tokens tokenstore.Store, notifier Notifier, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		jwt:      jwtManager,
		tokens:   tokens,
		notifier: notifier,
		log:      log.With().Str("component", "auth").Logger(),
		now:      time.Now,
	}
}

// Register creates a self-service account. The ADMIN role cannot be requested.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	firstname, err := requireName("firstname", req.Firstname)
	if err != nil {
		return nil, err
	}
	lastname, err := requireName("lastname", req.Lastname)
	if err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword("password", req.Password); err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		role, err := s.roles.FindByID(ctx, *req.RoleID)
		if err != nil {
			return nil, err
		}
		if role.Name == entity.RoleAdmin {
			return nil, ErrForbidden
		}
	}
	roleID, err := resolveRole(ctx, s.roles, req.RoleID)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, repository.CreateUserParams{
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: string(hashed),
		Active:       true,
		RoleID:       roleID,
	})
	if err != nil {
		return nil, err
	}

	notify(s.log, "welcome", s.notifier.Welcome(ctx, user, ""))
	s.log.Info().Int64("user_id", user.ID).Msg("user registered")

	resp := ToUserResponse(user)
	return &resp, nil
}

// Login validates credentials and returns an access and a refresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	subject := strconv.FormatInt(user.ID, 10)
	token, err := s.jwt.GenerateToken(subject, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(subject, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:        token,
		RefreshToken: refresh,
		Type:         tokenTypeBearer,
		ID:           user.ID,
		Email:        user.Email,
		Firstname:    user.Firstname,
		Lastname:     user.Lastname,
		Role:         user.Role,
	}, nil
}

// Refresh exchanges a refresh token for a new access token carrying the user's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(strconv.FormatInt(user.ID, 10), user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{Token: token, Type: tokenTypeBearer}, nil
}

// Validate checks an access token and returns its user.
func (s *AuthService) Validate(ctx context.Context, token string) (*dto.UserResponse, error) {
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) activeUser(ctx context.Context, claims *auth.Claims) (*entity.User, error) {
	revoked, err := s.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return s.CurrentAccount(ctx, claims.Subject)
}

// CurrentAccount loads the account behind a token subject as it is stored now.
// Unknown subjects return ErrInvalidToken and deactivated accounts ErrAccountDisabled.
func (s *AuthService) CurrentAccount(ctx context.Context, subject string) (*entity.User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

// Logout revokes an access token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}
	ttl := claims.Remaining(s.now())
	if ttl <= 0 {
		return nil
	}
	return s.tokens.Revoke(ctx, claims.ID, ttl)
}

// ForgotPassword emails a single-use reset link to active accounts. It never reveals whether the address exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil
	}
	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.log.Error().Err(err).Msg("forgot password lookup failed")
		}
		return nil
	}
	if !user.Active {
		return nil
	}

	token := uuid.NewString()
	if err := s.tokens.SaveResetToken(ctx, token, user.ID, resetTokenTTL); err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("store reset token failed")
		return nil
	}
	notify(s.log, "password reset", s.notifier.PasswordReset(ctx, user, token, resetTokenTTL))
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidToken
	}
	if err := ValidatePassword("new_password", newPassword); err != nil {
		return err
	}

	userID, err := s.tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, tokenstore.ErrTokenNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	if err := updatePassword(ctx, s.users, userID, newPassword); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	s.log.Info().Int64("user_id", userID).Msg("password reset")
	return nil
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, actor Actor) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile changes the caller's names and email.
func (s *AuthService) UpdateProfile(ctx context.Context, actor Actor, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	var params repository.UpdateUserParams
	if req.Firstname != nil {
		name, err := requireName("firstname", *req.Firstname)
		if err != nil {
			return nil, err
		}
		params.Firstname = &name
	}
	if req.Lastname != nil {
		name, err := requireName("lastname", *req.Lastname)
		if err != nil {
			return nil, err
		}
		params.Lastname = &name
	}
	if req.Email != nil {
		email, err := NormalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		params.Email = &email
	}

	user, err := s.users.Update(ctx, actor.UserID, params)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the caller's password after checking the old one.
func (s *AuthService) ChangePassword(ctx context.Context, actor Actor, req dto.ChangePasswordRequest) error {
	if req.OldPassword == "" {
		return invalid("old_password", "is required")
	}
	if err := ValidatePassword("new_password", req.NewPassword); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrInvalidCredentials
	}
	return updatePassword(ctx, s.users, actor.UserID, req.NewPassword)
}

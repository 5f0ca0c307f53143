package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/helha/gdpr-app/internal/auth"
	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

const generatedPasswordLength = 12

// UserService encapsulates administrative operations for users.
type UserService struct {
	users    repository.UsersRepository
	roles    repository.RolesRepository
	notifier Notifier
	log      zerolog.Logger
}

// NewUserService builds a new UserService instance.
func NewUserService(users repository.UsersRepository, roles repository.RolesRepository, notifier Notifier, log zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, notifier: notifier, log: log.With().Str("component", "users").Logger()}
}

// ToUserResponse converts an entity to its public form.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Active:    u.Active,
		RoleID:    u.RoleID,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// ListActiveUsers returns the users that can sign in.
func (s *UserService) ListActiveUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// ListByRole returns the users holding a role.
func (s *UserService) ListByRole(ctx context.Context, roleID int64) ([]dto.UserResponse, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, err
	}
	users, err := s.users.ListByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// GetUser returns one user. Non-admins may only read themselves.
func (s *UserService) GetUser(ctx context.Context, actor Actor, id int64) (*dto.UserResponse, error) {
	if !actor.CanAccessUser(id) {
		return nil, ErrForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// GetUserByEmail returns one user by address. Non-admins may only read themselves.
func (s *UserService) GetUserByEmail(ctx context.Context, actor Actor, email string) (*dto.UserResponse, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessUser(user.ID) {
		return nil, ErrForbidden
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// CreateUser creates an account. Without a password a strong one is generated and mailed to the user.
func (s *UserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
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

	password, generated := req.Password, false
	if password == "" {
		if password, err = auth.GeneratePassword(generatedPasswordLength); err != nil {
			return nil, fmt.Errorf("generate password: %w", err)
		}
		generated = true
	} else if err := ValidatePassword("password", password); err != nil {
		return nil, err
	}

	roleID, err := resolveRole(ctx, s.roles, req.RoleID)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	user, err := s.users.Create(ctx, repository.CreateUserParams{
		Firstname:    firstname,
		Lastname:     lastname,
		Email:        email,
		PasswordHash: string(hashed),
		Active:       active,
		RoleID:       roleID,
		CompanyID:    req.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	if !generated {
		password = ""
	}
	notify(s.log, "welcome", s.notifier.Welcome(ctx, user, password))

	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateUser mutates selected user fields. Only admins may change role, company or activity.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id int64, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !actor.CanAccessUser(id) {
		return nil, ErrForbidden
	}
	if !actor.IsAdmin() && (req.RoleID != nil || req.CompanyID != nil || req.Active != nil) {
		return nil, ErrForbidden
	}

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
	if req.RoleID != nil {
		if _, err := s.roles.FindByID(ctx, *req.RoleID); err != nil {
			return nil, err
		}
		params.RoleID = req.RoleID
	}
	if req.Active != nil && !*req.Active && actor.UserID == id {
		return nil, invalid("active", "you cannot deactivate your own account")
	}
	params.CompanyID = req.CompanyID
	params.Active = req.Active

	user, err := s.users.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ActivateUser re-enables an account.
func (s *UserService) ActivateUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	active := true
	user, err := s.users.Update(ctx, id, repository.UpdateUserParams{Active: &active})
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// DeactivateUser disables an account and tells its owner.
func (s *UserService) DeactivateUser(ctx context.Context, actor Actor, id int64) (*dto.UserResponse, error) {
	if actor.UserID == id {
		return nil, invalid("id", "you cannot deactivate your own account")
	}
	active := false
	user, err := s.users.Update(ctx, id, repository.UpdateUserParams{Active: &active})
	if err != nil {
		return nil, err
	}
	notify(s.log, "account deactivation", s.notifier.AccountDeactivated(ctx, user))

	resp := ToUserResponse(user)
	return &resp, nil
}

// DeleteUser removes an account and its requests.
func (s *UserService) DeleteUser(ctx context.Context, actor Actor, id int64) error {
	if actor.UserID == id {
		return invalid("id", "you cannot delete your own account")
	}
	return s.users.Delete(ctx, id)
}

// ChangePassword replaces a password. The old password is required unless an admin acts on another account.
func (s *UserService) ChangePassword(ctx context.Context, actor Actor, id int64, req dto.ChangePasswordRequest) error {
	if !actor.CanAccessUser(id) {
		return ErrForbidden
	}
	if err := ValidatePassword("new_password", req.NewPassword); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() || actor.UserID == id {
		if req.OldPassword == "" {
			return invalid("old_password", "is required")
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
			return ErrInvalidCredentials
		}
	}

	return updatePassword(ctx, s.users, id, req.NewPassword)
}

// Statistics summarises accounts by activity and role.
func (s *UserService) Statistics(ctx context.Context) (*dto.UserStatistics, error) {
	total, active, err := s.users.Counts(ctx)
	if err != nil {
		return nil, err
	}
	byRole, err := s.roles.UserCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.UserStatistics{
		TotalUsers:    total,
		ActiveUsers:   active,
		InactiveUsers: total - active,
		UsersByRole:   byRole,
	}
	if total > 0 {
		stats.ActivePercentage = percentage(active, total)
		stats.InactivePercentage = percentage(total-active, total)
	}
	return stats, nil
}

func percentage(part, total int64) float64 {
	return math.Round(float64(part)*10000/float64(total)) / 100
}

// resolveRole returns the requested role id, or the CLIENT role when none is given.
func resolveRole(ctx context.Context, roles repository.RolesRepository, roleID *int64) (int64, error) {
	if roleID != nil {
		role, err := roles.FindByID(ctx, *roleID)
		if err != nil {
			return 0, err
		}
		return role.ID, nil
	}
	role, err := roles.FindByName(ctx, entity.RoleClient)
	if err != nil {
		return 0, fmt.Errorf("default role %s: %w", entity.RoleClient, err)
	}
	return role.ID, nil
}

func updatePassword(ctx context.Context, users repository.UsersRepository, id int64, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	hash := string(hashed)
	_, err = users.Update(ctx, id, repository.UpdateUserParams{PasswordHash: &hash})
	return err
}

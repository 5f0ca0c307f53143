package service

import (
	"context"
	"errors"
	"sort"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

// RoleService manages authorization roles.
type RoleService struct {
	roles repository.RolesRepository
	users repository.UsersRepository
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles repository.RolesRepository, users repository.UsersRepository) *RoleService {
	return &RoleService{roles: roles, users: users}
}

func (s *RoleService) List(ctx context.Context) ([]entity.Role, error) {
	return s.roles.List(ctx)
}

func (s *RoleService) Get(ctx context.Context, id int64) (*entity.Role, error) {
	return s.roles.FindByID(ctx, id)
}

// GetByName looks a role up case-insensitively.
func (s *RoleService) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	normalized, err := NormalizeRoleName(name)
	if err != nil {
		return nil, repository.ErrRoleNotFound
	}
	return s.roles.FindByName(ctx, normalized)
}

// Create adds a role after normalising its name.
func (s *RoleService) Create(ctx context.Context, req dto.RoleRequest) (*entity.Role, error) {
	name, err := NormalizeRoleName(req.Role)
	if err != nil {
		return nil, err
	}
	return s.roles.Create(ctx, name)
}

// Update renames a role. System roles keep their names.
func (s *RoleService) Update(ctx context.Context, id int64, req dto.RoleRequest) (*entity.Role, error) {
	name, err := NormalizeRoleName(req.Role)
	if err != nil {
		return nil, err
	}
	current, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Name == name {
		return current, nil
	}
	if entity.IsSystemRole(current.Name) {
		return nil, ErrRoleProtected
	}
	return s.roles.Update(ctx, id, name)
}

// Delete removes a custom role that no user holds.
func (s *RoleService) Delete(ctx context.Context, id int64) error {
	current, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entity.IsSystemRole(current.Name) {
		return ErrRoleProtected
	}
	n, err := s.roles.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return repository.ErrRoleInUse
	}
	return s.roles.Delete(ctx, id)
}

// CountUsers returns how many users hold the role.
func (s *RoleService) CountUsers(ctx context.Context, id int64) (int64, error) {
	if _, err := s.roles.FindByID(ctx, id); err != nil {
		return 0, err
	}
	return s.roles.CountUsers(ctx, id)
}

// Statistics summarises roles and the users holding them.
func (s *RoleService) Statistics(ctx context.Context) (*dto.RoleStatistics, error) {
	counts, err := s.roles.UserCounts(ctx)
	if err != nil {
		return nil, err
	}
	total, _, err := s.users.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.RoleStatistics{
		TotalRoles:     int64(len(counts)),
		TotalUsers:     total,
		RoleUserCounts: counts,
	}, nil
}

// Names returns every role name sorted alphabetically.
func (s *RoleService) Names(ctx context.Context) ([]string, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	return names, nil
}

// InitDefaults creates the system roles that are missing.
func (s *RoleService) InitDefaults(ctx context.Context) (int, error) {
	return s.roles.EnsureDefaults(ctx, entity.DefaultRoles)
}

// Validate reports whether name is an acceptable role name and whether it is already taken.
func (s *RoleService) Validate(ctx context.Context, name string) (*dto.RoleValidation, error) {
	normalized, err := NormalizeRoleName(name)
	if err != nil {
		return &dto.RoleValidation{Role: name}, nil
	}
	result := &dto.RoleValidation{Role: normalized, Valid: true}
	_, err = s.roles.FindByName(ctx, normalized)
	switch {
	case err == nil:
		result.Exists = true
	case !errors.Is(err, repository.ErrRoleNotFound):
		return nil, err
	}
	return result, nil
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/helha/gdpr-app/internal/auth"
	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

var (
	adminActor  = Actor{UserID: 1, Email: "admin@gdprapp.com", Role: entity.RoleAdmin}
	clientActor = Actor{UserID: 7, Email: "jane@example.com", Role: entity.RoleClient}
	gerantActor = Actor{UserID: 9, Email: "boss@acme.com", Role: entity.RoleGerant}
)

func createdUser(params repository.CreateUserParams) *entity.User {
	return &entity.User{
		ID:           42,
		Firstname:    params.Firstname,
		Lastname:     params.Lastname,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Active:       params.Active,
		RoleID:       params.RoleID,
		Role:         entity.RoleClient,
		CompanyID:    params.CompanyID,
	}
}

func TestUserService_ListUsers(t *testing.T) {
	repo := &mockUsersRepository{
		list: func(ctx context.Context) ([]entity.User, error) {
			return []entity.User{
				{ID: 1, Email: "admin@gdprapp.com", Role: entity.RoleAdmin},
				{ID: 2, Email: "jane@example.com", Role: entity.RoleClient},
			}, nil
		},
	}

	service := NewUserService(repo, defaultRoles(), &recordingNotifier{}, zerolog.Nop())
	users, err := service.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 || users[0].Email != "admin@gdprapp.com" || users[1].Role != entity.RoleClient {
		t.Fatalf("unexpected response: %+v", users)
	}
}

func TestUserService_CreateUser(t *testing.T) {
	var captured repository.CreateUserParams
	repo := &mockUsersRepository{
		create: func(ctx context.Context, params repository.CreateUserParams) (*entity.User, error) {
			captured = params
			return createdUser(params), nil
		},
	}
	notifier := &recordingNotifier{}
	service := NewUserService(repo, defaultRoles(), notifier, zerolog.Nop())

	req := dto.CreateUserRequest{Firstname: " Jane ", Lastname: "Doe", Email: "  Jane@Example.com ", Password: "secret12"}
	resp, err := service.CreateUser(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Email != "jane@example.com" || resp.Firstname != "Jane" || !resp.Active {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if captured.RoleID != 2 {
		t.Fatalf("expected default CLIENT role id 2, got %d", captured.RoleID)
	}
	if bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("secret12")) != nil {
		t.Fatalf("expected stored password to be hashed")
	}
	if len(notifier.welcomed) != 1 || notifier.passwords[0] != "" {
		t.Fatalf("expected welcome email without password, got %+v", notifier)
	}

	if _, err := service.CreateUser(context.Background(), dto.CreateUserRequest{}); err == nil {
		t.Fatalf("expected validation error for empty payload")
	}

	repo.create = func(ctx context.Context, params repository.CreateUserParams) (*entity.User, error) {
		return nil, repository.ErrEmailDuplicate
	}
	if _, err := service.CreateUser(context.Background(), req); !errors.Is(err, repository.ErrEmailDuplicate) {
		t.Fatalf("expected email duplicate error, got %v", err)
	}
}

func TestUserService_CreateUser_GeneratesPassword(t *testing.T) {
	var hash string
	repo := &mockUsersRepository{
		create: func(ctx context.Context, params repository.CreateUserParams) (*entity.User, error) {
			hash = params.PasswordHash
			return createdUser(params), nil
		},
	}
	notifier := &recordingNotifier{}
	service := NewUserService(repo, defaultRoles(), notifier, zerolog.Nop())

	_, err := service.CreateUser(context.Background(), dto.CreateUserRequest{
		Firstname: "Jane",
		Lastname:  "Doe",
		Email:     "jane@example.com",
		RoleID:    int64Ptr(3),
		Active:    boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.passwords) != 1 {
		t.Fatalf("expected one welcome email, got %d", len(notifier.passwords))
	}
	generated := notifier.passwords[0]
	if !auth.IsStrongPassword(generated) {
		t.Fatalf("expected a strong generated password, got %q", generated)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(generated)) != nil {
		t.Fatalf("stored hash does not match the mailed password")
	}
}

func TestUserService_CreateUser_UnknownRole(t *testing.T) {
	service := NewUserService(&mockUsersRepository{}, defaultRoles(), &recordingNotifier{}, zerolog.Nop())
	_, err := service.CreateUser(context.Background(), dto.CreateUserRequest{
		Firstname: "Jane",
		Lastname:  "Doe",
		Email:     "jane@example.com",
		Password:  "secret12",
		RoleID:    int64Ptr(99),
	})
	if !errors.Is(err, repository.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestUserService_UpdateUser(t *testing.T) {
	var captured repository.UpdateUserParams
	repo := &mockUsersRepository{
		update: func(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error) {
			captured = params
			return &entity.User{ID: id, Email: "jane@example.com", Role: entity.RoleClient}, nil
		},
	}
	service := NewUserService(repo, defaultRoles(), &recordingNotifier{}, zerolog.Nop())

	if _, err := service.UpdateUser(context.Background(), clientActor, 7, dto.UpdateUserRequest{Firstname: stringPtr(" Janet ")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.Firstname == nil || *captured.Firstname != "Janet" {
		t.Fatalf("expected trimmed firstname, got %+v", captured)
	}

	tests := map[string]struct {
		actor Actor
		id    int64
		req   dto.UpdateUserRequest
	}{
		"other user":           {actor: clientActor, id: 8, req: dto.UpdateUserRequest{Firstname: stringPtr("X")}},
		"self role change":     {actor: clientActor, id: 7, req: dto.UpdateUserRequest{RoleID: int64Ptr(1)}},
		"self activity change": {actor: clientActor, id: 7, req: dto.UpdateUserRequest{Active: boolPtr(true)}},
		"self company change":  {actor: clientActor, id: 7, req: dto.UpdateUserRequest{CompanyID: int64Ptr(3)}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := service.UpdateUser(context.Background(), tc.actor, tc.id, tc.req); !errors.Is(err, ErrForbidden) {
				t.Fatalf("expected ErrForbidden, got %v", err)
			}
		})
	}

	if _, err := service.UpdateUser(context.Background(), adminActor, 7, dto.UpdateUserRequest{RoleID: int64Ptr(3), CompanyID: int64Ptr(5)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *captured.RoleID != 3 || *captured.CompanyID != 5 {
		t.Fatalf("expected admin changes to pass through, got %+v", captured)
	}
}

func TestUserService_DeactivateUser(t *testing.T) {
	repo := &mockUsersRepository{
		update: func(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error) {
			if params.Active == nil || *params.Active {
				t.Fatalf("expected active=false, got %+v", params)
			}
			return &entity.User{ID: id, Email: "jane@example.com"}, nil
		},
	}
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	service := NewUserService(repo, defaultRoles(), notifier, zerolog.Nop())

	resp, err := service.DeactivateUser(context.Background(), adminActor, 7)
	if err != nil {
		t.Fatalf("email failures must not fail deactivation: %v", err)
	}
	if resp.Active || len(notifier.deactivated) != 1 {
		t.Fatalf("unexpected result: %+v %+v", resp, notifier)
	}

	var verr *ValidationError
	if _, err := service.DeactivateUser(context.Background(), adminActor, adminActor.UserID); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for self deactivation, got %v", err)
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	repo := &mockUsersRepository{
		delete: func(ctx context.Context, id int64) error {
			if id == 99 {
				return repository.ErrUserNotFound
			}
			return nil
		},
	}
	service := NewUserService(repo, defaultRoles(), &recordingNotifier{}, zerolog.Nop())

	if err := service.DeleteUser(context.Background(), adminActor, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := service.DeleteUser(context.Background(), adminActor, 99); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := service.DeleteUser(context.Background(), adminActor, adminActor.UserID); err == nil {
		t.Fatalf("expected admins to be unable to delete themselves")
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("oldpass1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}

	var updated bool
	repo := &mockUsersRepository{
		findByID: func(ctx context.Context, id int64) (*entity.User, error) {
			return &entity.User{ID: id, PasswordHash: string(hashed)}, nil
		},
		update: func(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error) {
			updated = params.PasswordHash != nil
			return &entity.User{ID: id}, nil
		},
	}
	service := NewUserService(repo, defaultRoles(), &recordingNotifier{}, zerolog.Nop())

	tests := map[string]struct {
		actor   Actor
		id      int64
		req     dto.ChangePasswordRequest
		wantErr error
	}{
		"self with old password":   {actor: clientActor, id: 7, req: dto.ChangePasswordRequest{OldPassword: "oldpass1", NewPassword: "newpass2"}},
		"self wrong old password":  {actor: clientActor, id: 7, req: dto.ChangePasswordRequest{OldPassword: "nope1234", NewPassword: "newpass2"}, wantErr: ErrInvalidCredentials},
		"other user":               {actor: clientActor, id: 8, req: dto.ChangePasswordRequest{OldPassword: "oldpass1", NewPassword: "newpass2"}, wantErr: ErrForbidden},
		"admin for another user":   {actor: adminActor, id: 7, req: dto.ChangePasswordRequest{NewPassword: "newpass2"}},
		"admin for self needs old": {actor: adminActor, id: 1, req: dto.ChangePasswordRequest{NewPassword: "newpass2"}, wantErr: &ValidationError{}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			updated = false
			err := service.ChangePassword(context.Background(), tc.actor, tc.id, tc.req)
			switch want := tc.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !updated {
					t.Fatalf("expected password update")
				}
			case *ValidationError:
				if !errors.As(err, &want) {
					t.Fatalf("expected validation error, got %v", err)
				}
			default:
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
			}
		})
	}
}

func TestUserService_Statistics(t *testing.T) {
	repo := &mockUsersRepository{
		counts: func(ctx context.Context) (int64, int64, error) { return 3, 2, nil },
	}
	roles := &mockRolesRepository{
		userCounts: func(ctx context.Context) (map[string]int64, error) {
			return map[string]int64{entity.RoleAdmin: 1, entity.RoleClient: 2}, nil
		},
	}

	stats, err := NewUserService(repo, roles, &recordingNotifier{}, zerolog.Nop()).Statistics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.InactiveUsers != 1 || stats.ActivePercentage != 66.67 || stats.InactivePercentage != 33.33 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
	if stats.UsersByRole[entity.RoleClient] != 2 {
		t.Fatalf("unexpected role counts: %+v", stats.UsersByRole)
	}
}

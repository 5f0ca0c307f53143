package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func userRow(id int64, email, role string, active bool) func(dest ...any) error {
	return func(dest ...any) error {
		created := time.Now()
		*dest[0].(*int64) = id
		*dest[1].(*string) = "Ada"
		*dest[2].(*string) = "Lovelace"
		*dest[3].(*string) = email
		*dest[4].(*string) = "hashed"
		*dest[5].(*bool) = active
		*dest[6].(*int64) = 2
		*dest[7].(*string) = role
		*dest[9].(*time.Time) = created
		*dest[10].(*time.Time) = created
		return nil
	}
}

func TestPGXUsersRepository_FindByEmail(t *testing.T) {
	repo := &PGXUsersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: userRow(1, "user@example.com", "ADMIN", true)}
		},
	}}

	user, err := repo.FindByEmail(context.Background(), "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "user@example.com" || user.Role != "ADMIN" || !user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: noRows}
		},
	}
	if _, err := repo.FindByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_Create(t *testing.T) {
	tests := map[string]struct {
		scanErr error
		wantErr error
	}{
		"created":         {},
		"duplicate email": {scanErr: pgError(pgUniqueViolation, "users_email_key"), wantErr: ErrEmailDuplicate},
		"unknown role":    {scanErr: pgError(pgForeignKeyViolation, "users_role_id_fkey"), wantErr: ErrRoleNotFound},
		"unknown company": {scanErr: pgError(pgForeignKeyViolation, "users_company_id_fkey"), wantErr: ErrCompanyNotFound},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			repo := &PGXUsersRepository{pool: &stubPool{
				queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
					if !strings.Contains(query, "INSERT INTO users") {
						t.Fatalf("unexpected query: %s", query)
					}
					if tc.scanErr != nil {
						return &stubRow{scan: func(dest ...any) error { return tc.scanErr }}
					}
					return &stubRow{scan: userRow(5, args[2].(string), "CLIENT", true)}
				},
			}}

			user, err := repo.Create(context.Background(), CreateUserParams{
				Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com", PasswordHash: "hashed", Active: true, RoleID: 2,
			})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user.Email != "ada@example.com" || user.Role != "CLIENT" {
				t.Fatalf("unexpected user: %+v", user)
			}
		})
	}
}

func TestPGXUsersRepository_List(t *testing.T) {
	repo := &PGXUsersRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			if !strings.Contains(query, "WHERE u.active") {
				t.Fatalf("expected active filter, got %s", query)
			}
			return &stubRows{scans: []func(dest ...any) error{userRow(1, "admin@example.com", "ADMIN", true)}}, nil
		},
	}}

	rows, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Email != "admin@example.com" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestPGXUsersRepository_Update(t *testing.T) {
	var gotQuery string
	var gotArgs []any
	repo := &PGXUsersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			gotQuery, gotArgs = query, args
			return &stubRow{scan: userRow(1, "updated@example.com", "CLIENT", false)}
		},
	}}

	email := "updated@example.com"
	active := false
	user, err := repo.Update(context.Background(), 1, UpdateUserParams{Email: &email, Active: &active})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "updated@example.com" || user.Active {
		t.Fatalf("unexpected user: %+v", user)
	}
	if !strings.Contains(gotQuery, "email = $1, active = $2, updated_at = NOW() WHERE id = $3") {
		t.Fatalf("unexpected query: %s", gotQuery)
	}
	if len(gotArgs) != 3 || gotArgs[2] != int64(1) {
		t.Fatalf("unexpected args: %v", gotArgs)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: noRows}
		},
	}
	if _, err := repo.Update(context.Background(), 9, UpdateUserParams{Email: &email}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_Delete(t *testing.T) {
	repo := &PGXUsersRepository{pool: &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 1"), nil
		},
	}}

	if err := repo.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.pool = &stubPool{
		execFunc: func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("DELETE 0"), nil
		},
	}
	if err := repo.Delete(context.Background(), 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_Counts(t *testing.T) {
	repo := &PGXUsersRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				*dest[0].(*int64) = 10
				*dest[1].(*int64) = 7
				return nil
			}}
		},
	}}

	total, active, err := repo.Counts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 10 || active != 7 {
		t.Fatalf("unexpected counts: %d %d", total, active)
	}
}

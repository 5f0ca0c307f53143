package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helha/gdpr-app/internal/entity"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailDuplicate = errors.New("email already exists")
)

// CreateUserParams holds the columns written when inserting a user.
type CreateUserParams struct {
	Firstname    string
	Lastname     string
	Email        string
	PasswordHash string
	Active       bool
	RoleID       int64
	CompanyID    *int64
}

// UpdateUserParams lists optional columns for partial updates. A nil field is left untouched.
type UpdateUserParams struct {
	Firstname    *string
	Lastname     *string
	Email        *string
	PasswordHash *string
	Active       *bool
	RoleID       *int64
	CompanyID    *int64
}

// UsersRepository declares persistence operations for users.
type UsersRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	Create(ctx context.Context, params CreateUserParams) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	ListActive(ctx context.Context) ([]entity.User, error)
	ListByRole(ctx context.Context, roleID int64) ([]entity.User, error)
	Update(ctx context.Context, id int64, params UpdateUserParams) (*entity.User, error)
	Delete(ctx context.Context, id int64) error
	Counts(ctx context.Context) (total, active int64, err error)
}

// PGXUsersRepository implements UsersRepository with pgx.
type PGXUsersRepository struct {
	pool pgxPool
}

// NewPGXUsersRepository instantiates a users repository.
func NewPGXUsersRepository(pool *pgxpool.Pool) *PGXUsersRepository {
	return &PGXUsersRepository{pool: pool}
}

const userColumns = `u.id, u.firstname, u.lastname, u.email, u.password_hash, u.active, u.role_id, r.role, u.company_id, u.created_at, u.updated_at`

const selectUsers = `SELECT ` + userColumns + ` FROM users u JOIN roles r ON r.id = u.role_id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	if err := row.Scan(&user.ID, &user.Firstname, &user.Lastname, &user.Email, &user.PasswordHash, &user.Active,
		&user.RoleID, &user.Role, &user.CompanyID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail fetches a user by email if present.
func (r *PGXUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUsers+` WHERE u.email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user by identifier.
func (r *PGXUsersRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUsers+` WHERE u.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// Create inserts a new user row.
func (r *PGXUsersRepository) Create(ctx context.Context, params CreateUserParams) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
        WITH u AS (
            INSERT INTO users (firstname, lastname, email, password_hash, active, role_id, company_id)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING *
        )
        SELECT `+userColumns+` FROM u JOIN roles r ON r.id = u.role_id
    `, params.Firstname, params.Lastname, params.Email, params.PasswordHash, params.Active, params.RoleID, params.CompanyID)

	user, err := scanUser(row)
	if err != nil {
		return nil, mapUserWriteError("insert user", err)
	}
	return user, nil
}

// List returns all users ordered by creation date (desc).
func (r *PGXUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	return r.list(ctx, selectUsers+` ORDER BY u.created_at DESC`)
}

// ListActive returns active users only.
func (r *PGXUsersRepository) ListActive(ctx context.Context) ([]entity.User, error) {
	return r.list(ctx, selectUsers+` WHERE u.active ORDER BY u.created_at DESC`)
}

// ListByRole returns users holding the given role.
func (r *PGXUsersRepository) ListByRole(ctx context.Context, roleID int64) ([]entity.User, error) {
	return r.list(ctx, selectUsers+` WHERE u.role_id = $1 ORDER BY u.created_at DESC`, roleID)
}

func (r *PGXUsersRepository) list(ctx context.Context, query string, args ...any) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// Update patches user attributes.
func (r *PGXUsersRepository) Update(ctx context.Context, id int64, params UpdateUserParams) (*entity.User, error) {
	setClauses := make([]string, 0)
	args := make([]any, 0)
	idx := 1

	set := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}
	if params.Firstname != nil {
		set("firstname", *params.Firstname)
	}
	if params.Lastname != nil {
		set("lastname", *params.Lastname)
	}
	if params.Email != nil {
		set("email", *params.Email)
	}
	if params.PasswordHash != nil {
		set("password_hash", *params.PasswordHash)
	}
	if params.Active != nil {
		set("active", *params.Active)
	}
	if params.RoleID != nil {
		set("role_id", *params.RoleID)
	}
	if params.CompanyID != nil {
		set("company_id", *params.CompanyID)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
        WITH u AS (
            UPDATE users SET %s WHERE id = $%d RETURNING *
        )
        SELECT %s FROM u JOIN roles r ON r.id = u.role_id`, strings.Join(setClauses, ", "), idx, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, mapUserWriteError("update user", err)
	}
	return user, nil
}

// Delete removes a user by id. Their GDPR requests cascade.
func (r *PGXUsersRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Counts returns the number of users and how many of them are active.
func (r *PGXUsersRepository) Counts(ctx context.Context) (int64, int64, error) {
	var total, active int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM users`).Scan(&total, &active); err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return total, active, nil
}

func mapUserWriteError(op string, err error) error {
	if constraint, ok := pgConstraint(err, pgUniqueViolation); ok && strings.Contains(constraint, "email") {
		return ErrEmailDuplicate
	}
	if constraint, ok := pgConstraint(err, pgForeignKeyViolation); ok {
		switch {
		case strings.Contains(constraint, "role"):
			return ErrRoleNotFound
		case strings.Contains(constraint, "company"):
			return ErrCompanyNotFound
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

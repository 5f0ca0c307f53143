package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helha/gdpr-app/internal/entity"
)

var (
	ErrRoleNotFound  = errors.New("role not found")
	ErrRoleDuplicate = errors.New("role already exists")
	ErrRoleInUse     = errors.New("role is assigned to users")
)

// RolesRepository declares persistence operations for roles.
type RolesRepository interface {
	List(ctx context.Context) ([]entity.Role, error)
	FindByID(ctx context.Context, id int64) (*entity.Role, error)
	FindByName(ctx context.Context, name string) (*entity.Role, error)
	Create(ctx context.Context, name string) (*entity.Role, error)
	Update(ctx context.Context, id int64, name string) (*entity.Role, error)
	Delete(ctx context.Context, id int64) error
	CountUsers(ctx context.Context, id int64) (int64, error)
	UserCounts(ctx context.Context) (map[string]int64, error)
	EnsureDefaults(ctx context.Context, names []string) (int, error)
}

// PGXRolesRepository implements RolesRepository with pgx.
type PGXRolesRepository struct {
	pool pgxPool
}

// NewPGXRolesRepository instantiates a roles repository.
func NewPGXRolesRepository(pool *pgxpool.Pool) *PGXRolesRepository {
	return &PGXRolesRepository{pool: pool}
}

// List returns every role ordered by name.
func (r *PGXRolesRepository) List(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, role FROM roles ORDER BY role`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	roles := make([]entity.Role, 0)
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("scan role row: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}

// FindByID retrieves a role by identifier.
func (r *PGXRolesRepository) FindByID(ctx context.Context, id int64) (*entity.Role, error) {
	return r.findOne(ctx, `SELECT id, role FROM roles WHERE id = $1`, id)
}

// FindByName retrieves a role by its exact name.
func (r *PGXRolesRepository) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.findOne(ctx, `SELECT id, role FROM roles WHERE role = $1`, name)
}

func (r *PGXRolesRepository) findOne(ctx context.Context, query string, arg any) (*entity.Role, error) {
	var role entity.Role
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&role.ID, &role.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("query role: %w", err)
	}
	return &role, nil
}

// Create inserts a new role.
func (r *PGXRolesRepository) Create(ctx context.Context, name string) (*entity.Role, error) {
	var role entity.Role
	err := r.pool.QueryRow(ctx, `INSERT INTO roles (role) VALUES ($1) RETURNING id, role`, name).Scan(&role.ID, &role.Name)
	if err != nil {
		if _, ok := pgConstraint(err, pgUniqueViolation); ok {
			return nil, ErrRoleDuplicate
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return &role, nil
}

// Update renames a role.
func (r *PGXRolesRepository) Update(ctx context.Context, id int64, name string) (*entity.Role, error) {
	var role entity.Role
	err := r.pool.QueryRow(ctx, `UPDATE roles SET role = $1 WHERE id = $2 RETURNING id, role`, name, id).Scan(&role.ID, &role.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		if _, ok := pgConstraint(err, pgUniqueViolation); ok {
			return nil, ErrRoleDuplicate
		}
		return nil, fmt.Errorf("update role: %w", err)
	}
	return &role, nil
}

// Delete removes a role. Roles still referenced by users yield ErrRoleInUse.
func (r *PGXRolesRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		if _, ok := pgConstraint(err, pgForeignKeyViolation); ok {
			return ErrRoleInUse
		}
		return fmt.Errorf("delete role: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrRoleNotFound
	}
	return nil
}

// CountUsers returns how many users hold the role.
func (r *PGXRolesRepository) CountUsers(ctx context.Context, id int64) (int64, error) {
	n, err := scanCount(r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("count role users: %w", err)
	}
	return n, nil
}

// UserCounts maps every role name to its number of users, zero included.
func (r *PGXRolesRepository) UserCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT r.role, COUNT(u.id)
        FROM roles r
        LEFT JOIN users u ON u.role_id = r.id
        GROUP BY r.role
        ORDER BY r.role
    `)
	if err != nil {
		return nil, fmt.Errorf("count users per role: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			name string
			n    int64
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan role count: %w", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate role counts: %w", err)
	}
	return counts, nil
}

// EnsureDefaults inserts the named roles that are missing and reports how many were created.
func (r *PGXRolesRepository) EnsureDefaults(ctx context.Context, names []string) (int, error) {
	created := 0
	for _, name := range names {
		cmd, err := r.pool.Exec(ctx, `INSERT INTO roles (role) VALUES ($1) ON CONFLICT (role) DO NOTHING`, name)
		if err != nil {
			return created, fmt.Errorf("insert default role %s: %w", name, err)
		}
		created += int(cmd.RowsAffected())
	}
	return created, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
)

var ErrRequestNotFound = errors.New("gdpr request not found")

// RequestFilter narrows request listings. Zero values are ignored.
type RequestFilter struct {
	UserID    *int64
	CompanyID *int64
	Status    string
	Type      string
	From      *time.Time
	To        *time.Time
}

// GDPRRequestsRepository declares persistence operations for GDPR requests.
type GDPRRequestsRepository interface {
	Create(ctx context.Context, req *entity.GDPRRequest) (*entity.GDPRRequest, error)
	FindByID(ctx context.Context, id int64) (*entity.GDPRRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]entity.GDPRRequest, error)
	Count(ctx context.Context, filter RequestFilter) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateContent(ctx context.Context, id int64, content *string) error
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context, companyID *int64) (dto.GDPRStatistics, error)
}

// PGXGDPRRequestsRepository implements GDPRRequestsRepository with pgx.
type PGXGDPRRequestsRepository struct {
	pool pgxPool
}

// NewPGXGDPRRequestsRepository instantiates a GDPR requests repository.
func NewPGXGDPRRequestsRepository(pool *pgxpool.Pool) *PGXGDPRRequestsRepository {
	return &PGXGDPRRequestsRepository{pool: pool}
}

const selectRequests = `
    SELECT g.id, g.request_type, g.status, g.request_date, g.request_content, g.user_id, g.company_id, g.updated_at,
           u.firstname, u.lastname, u.email, c.company_name, c.email
    FROM gdpr_requests g
    JOIN users u ON u.id = g.user_id
    JOIN companies c ON c.id = g.company_id`

func scanRequest(row pgx.Row) (*entity.GDPRRequest, error) {
	var (
		req     entity.GDPRRequest
		user    entity.RequestUser
		company entity.RequestCompany
	)
	if err := row.Scan(&req.ID, &req.RequestType, &req.Status, &req.RequestDate, &req.RequestContent, &req.UserID,
		&req.CompanyID, &req.UpdatedAt, &user.Firstname, &user.Lastname, &user.Email, &company.CompanyName, &company.Email); err != nil {
		return nil, err
	}
	user.ID = req.UserID
	company.ID = req.CompanyID
	req.User = &user
	req.Company = &company
	return &req, nil
}

// Create inserts a request and returns it with its user and company embedded.
func (r *PGXGDPRRequestsRepository) Create(ctx context.Context, req *entity.GDPRRequest) (*entity.GDPRRequest, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
        INSERT INTO gdpr_requests (request_type, status, request_date, request_content, user_id, company_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id
    `, req.RequestType, req.Status, req.RequestDate, req.RequestContent, req.UserID, req.CompanyID).Scan(&id)
	if err != nil {
		if constraint, ok := pgConstraint(err, pgForeignKeyViolation); ok {
			if strings.Contains(constraint, "company") {
				return nil, ErrCompanyNotFound
			}
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("insert gdpr request: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindByID retrieves a request by identifier.
func (r *PGXGDPRRequestsRepository) FindByID(ctx context.Context, id int64) (*entity.GDPRRequest, error) {
	req, err := scanRequest(r.pool.QueryRow(ctx, selectRequests+` WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("query gdpr request: %w", err)
	}
	return req, nil
}

// List returns requests matching filter, newest first.
func (r *PGXGDPRRequestsRepository) List(ctx context.Context, filter RequestFilter) ([]entity.GDPRRequest, error) {
	where, args := filter.where()
	rows, err := r.pool.Query(ctx, selectRequests+where+` ORDER BY g.request_date DESC, g.id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list gdpr requests: %w", err)
	}
	defer rows.Close()

	requests := make([]entity.GDPRRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gdpr request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gdpr requests: %w", err)
	}
	return requests, nil
}

// Count returns how many requests match filter.
func (r *PGXGDPRRequestsRepository) Count(ctx context.Context, filter RequestFilter) (int64, error) {
	where, args := filter.where()
	n, err := scanCount(r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM gdpr_requests g`+where, args...))
	if err != nil {
		return 0, fmt.Errorf("count gdpr requests: %w", err)
	}
	return n, nil
}

// UpdateStatus sets the status of a request.
func (r *PGXGDPRRequestsRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.exec(ctx, "update gdpr request status",
		`UPDATE gdpr_requests SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

// UpdateContent replaces the free text of a request.
func (r *PGXGDPRRequestsRepository) UpdateContent(ctx context.Context, id int64, content *string) error {
	return r.exec(ctx, "update gdpr request content",
		`UPDATE gdpr_requests SET request_content = $1, updated_at = NOW() WHERE id = $2`, content, id)
}

// Delete removes a request.
func (r *PGXGDPRRequestsRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete gdpr request", `DELETE FROM gdpr_requests WHERE id = $1`, id)
}

func (r *PGXGDPRRequestsRepository) exec(ctx context.Context, op, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// Statistics counts requests by status and type, optionally for one company.
func (r *PGXGDPRRequestsRepository) Statistics(ctx context.Context, companyID *int64) (dto.GDPRStatistics, error) {
	where, args := RequestFilter{CompanyID: companyID}.where()
	var stats dto.GDPRStatistics
	err := r.pool.QueryRow(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE g.status = 'PENDING'),
               COUNT(*) FILTER (WHERE g.status = 'PROCESSED'),
               COUNT(*) FILTER (WHERE g.request_type = 'MODIFICATION'),
               COUNT(*) FILTER (WHERE g.request_type = 'DELETION')
        FROM gdpr_requests g`+where, args...).
		Scan(&stats.Total, &stats.Pending, &stats.Processed, &stats.Modification, &stats.Deletion)
	if err != nil {
		return dto.GDPRStatistics{}, fmt.Errorf("gdpr request statistics: %w", err)
	}
	return stats, nil
}

func (f RequestFilter) where() (string, []any) {
	clauses := make([]string, 0)
	args := make([]any, 0)
	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.UserID != nil {
		add("g.user_id = $%d", *f.UserID)
	}
	if f.CompanyID != nil {
		add("g.company_id = $%d", *f.CompanyID)
	}
	if f.Status != "" {
		add("g.status = $%d", f.Status)
	}
	if f.Type != "" {
		add("g.request_type = $%d", f.Type)
	}
	if f.From != nil {
		add("g.request_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("g.request_date <= $%d", *f.To)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

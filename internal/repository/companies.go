package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
)

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrCompanyNameDuplicate  = errors.New("company name already exists")
	ErrCompanyEmailDuplicate = errors.New("company email already exists")
)

// CompanyParams holds the writable company columns.
type CompanyParams struct {
	CompanyName string
	Email       string
	Phone       *string
}

// CompaniesRepository declares persistence operations for companies.
type CompaniesRepository interface {
	List(ctx context.Context) ([]entity.Company, error)
	FindByID(ctx context.Context, id int64) (*entity.Company, error)
	FindByEmail(ctx context.Context, email string) (*entity.Company, error)
	FindByName(ctx context.Context, name string) (*entity.Company, error)
	Create(ctx context.Context, params CompanyParams) (*entity.Company, error)
	Update(ctx context.Context, id int64, params CompanyParams) (*entity.Company, error)
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, fragment string) ([]entity.Company, error)
	SearchByEmail(ctx context.Context, fragment string) ([]entity.Company, error)
	ListPage(ctx context.Context, limit, offset int) ([]entity.Company, error)
	Count(ctx context.Context) (int64, error)
	Summaries(ctx context.Context) ([]dto.CompanySummary, error)
	Names(ctx context.Context) ([]string, error)
	Emails(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (dto.CompanyStatistics, error)
	InsertIfMissing(ctx context.Context, params CompanyParams) (bool, error)
}

// PGXCompaniesRepository implements CompaniesRepository with pgx.
type PGXCompaniesRepository struct {
	pool pgxPool
}

// NewPGXCompaniesRepository instantiates a companies repository.
func NewPGXCompaniesRepository(pool *pgxpool.Pool) *PGXCompaniesRepository {
	return &PGXCompaniesRepository{pool: pool}
}

const selectCompanies = `SELECT id, company_name, email, phone, created_at, updated_at FROM companies`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var company entity.Company
	if err := row.Scan(&company.ID, &company.CompanyName, &company.Email, &company.Phone, &company.CreatedAt, &company.UpdatedAt); err != nil {
		return nil, err
	}
	return &company, nil
}

// List returns all companies ordered by name.
func (r *PGXCompaniesRepository) List(ctx context.Context) ([]entity.Company, error) {
	return r.list(ctx, selectCompanies+` ORDER BY company_name`)
}

// FindByID retrieves a company by identifier.
func (r *PGXCompaniesRepository) FindByID(ctx context.Context, id int64) (*entity.Company, error) {
	return r.findOne(ctx, selectCompanies+` WHERE id = $1`, id)
}

// FindByEmail retrieves a company by email, ignoring case.
func (r *PGXCompaniesRepository) FindByEmail(ctx context.Context, email string) (*entity.Company, error) {
	return r.findOne(ctx, selectCompanies+` WHERE LOWER(email) = LOWER($1)`, email)
}

// FindByName retrieves a company by name, ignoring case.
func (r *PGXCompaniesRepository) FindByName(ctx context.Context, name string) (*entity.Company, error) {
	return r.findOne(ctx, selectCompanies+` WHERE LOWER(company_name) = LOWER($1)`, name)
}

func (r *PGXCompaniesRepository) findOne(ctx context.Context, query string, arg any) (*entity.Company, error) {
	company, err := scanCompany(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, fmt.Errorf("query company: %w", err)
	}
	return company, nil
}

// Create inserts a company.
func (r *PGXCompaniesRepository) Create(ctx context.Context, params CompanyParams) (*entity.Company, error) {
	row := r.pool.QueryRow(ctx, `
        INSERT INTO companies (company_name, email, phone)
        VALUES ($1, $2, $3)
        RETURNING id, company_name, email, phone, created_at, updated_at
    `, params.CompanyName, params.Email, params.Phone)

	company, err := scanCompany(row)
	if err != nil {
		return nil, mapCompanyWriteError("insert company", err)
	}
	return company, nil
}

// Update replaces the writable columns of a company.
func (r *PGXCompaniesRepository) Update(ctx context.Context, id int64, params CompanyParams) (*entity.Company, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE companies
        SET company_name = $1, email = $2, phone = $3, updated_at = NOW()
        WHERE id = $4
        RETURNING id, company_name, email, phone, created_at, updated_at
    `, params.CompanyName, params.Email, params.Phone, id)

	company, err := scanCompany(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCompanyNotFound
		}
		return nil, mapCompanyWriteError("update company", err)
	}
	return company, nil
}

// Delete removes a company and, through the foreign key, its requests.
func (r *PGXCompaniesRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCompanyNotFound
	}
	return nil
}

// SearchByName returns companies whose name contains fragment, ignoring case.
func (r *PGXCompaniesRepository) SearchByName(ctx context.Context, fragment string) ([]entity.Company, error) {
	return r.list(ctx, selectCompanies+` WHERE company_name ILIKE $1 ORDER BY company_name`, likePattern(fragment))
}

// SearchByEmail returns companies whose email contains fragment, ignoring case.
func (r *PGXCompaniesRepository) SearchByEmail(ctx context.Context, fragment string) ([]entity.Company, error) {
	return r.list(ctx, selectCompanies+` WHERE email ILIKE $1 ORDER BY company_name`, likePattern(fragment))
}

// ListPage returns one page of companies ordered by name.
func (r *PGXCompaniesRepository) ListPage(ctx context.Context, limit, offset int) ([]entity.Company, error) {
	return r.list(ctx, selectCompanies+` ORDER BY company_name LIMIT $1 OFFSET $2`, limit, offset)
}

// Count returns the number of companies.
func (r *PGXCompaniesRepository) Count(ctx context.Context) (int64, error) {
	n, err := scanCount(r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies`))
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// Summaries returns the id and name of every company ordered by name.
func (r *PGXCompaniesRepository) Summaries(ctx context.Context) ([]dto.CompanySummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, company_name FROM companies ORDER BY company_name`)
	if err != nil {
		return nil, fmt.Errorf("list company summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]dto.CompanySummary, 0)
	for rows.Next() {
		var s dto.CompanySummary
		if err := rows.Scan(&s.ID, &s.CompanyName); err != nil {
			return nil, fmt.Errorf("scan company summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company summaries: %w", err)
	}
	return summaries, nil
}

// Names returns every company name sorted alphabetically.
func (r *PGXCompaniesRepository) Names(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT company_name FROM companies ORDER BY company_name`)
	if err != nil {
		return nil, fmt.Errorf("list company names: %w", err)
	}
	names, err := scanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan company names: %w", err)
	}
	return names, nil
}

// Emails returns every company email sorted alphabetically.
func (r *PGXCompaniesRepository) Emails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM companies ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list company emails: %w", err)
	}
	emails, err := scanStrings(rows)
	if err != nil {
		return nil, fmt.Errorf("scan company emails: %w", err)
	}
	return emails, nil
}

// Statistics counts companies alongside total and pending requests.
func (r *PGXCompaniesRepository) Statistics(ctx context.Context) (dto.CompanyStatistics, error) {
	var stats dto.CompanyStatistics
	err := r.pool.QueryRow(ctx, `
        SELECT
            (SELECT COUNT(*) FROM companies),
            (SELECT COUNT(*) FROM gdpr_requests),
            (SELECT COUNT(*) FROM gdpr_requests WHERE status = 'PENDING')
    `).Scan(&stats.TotalCompanies, &stats.TotalRequests, &stats.PendingRequests)
	if err != nil {
		return dto.CompanyStatistics{}, fmt.Errorf("company statistics: %w", err)
	}
	return stats, nil
}

// InsertIfMissing creates the company unless its name or email is already taken, ignoring case.
func (r *PGXCompaniesRepository) InsertIfMissing(ctx context.Context, params CompanyParams) (bool, error) {
	cmd, err := r.pool.Exec(ctx, `
        INSERT INTO companies (company_name, email, phone)
        SELECT $1::text, $2::text, $3::text
        WHERE NOT EXISTS (
            SELECT 1 FROM companies
            WHERE LOWER(company_name) = LOWER($1::text) OR LOWER(email) = LOWER($2::text)
        )
        ON CONFLICT DO NOTHING
    `, params.CompanyName, params.Email, params.Phone)
	if err != nil {
		return false, fmt.Errorf("insert company: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGXCompaniesRepository) list(ctx context.Context, query string, args ...any) ([]entity.Company, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]entity.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, *company)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}
	return companies, nil
}

func likePattern(fragment string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(fragment)
	return "%" + escaped + "%"
}

func mapCompanyWriteError(op string, err error) error {
	if constraint, ok := pgConstraint(err, pgUniqueViolation); ok {
		if strings.Contains(constraint, "email") {
			return ErrCompanyEmailDuplicate
		}
		return ErrCompanyNameDuplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

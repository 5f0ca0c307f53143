package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// defaultCompanies are created by InitDefaults when missing.
var defaultCompanies = []repository.CompanyParams{
	{CompanyName: "Google LLC", Email: "contact@google.com"},
	{CompanyName: "Microsoft Corporation", Email: "contact@microsoft.com"},
	{CompanyName: "Apple Inc.", Email: "contact@apple.com"},
	{CompanyName: "Meta Platforms Inc.", Email: "contact@meta.com"},
	{CompanyName: "Amazon.com Inc.", Email: "contact@amazon.com"},
}

// CompanyService manages the companies requests are filed against.
type CompanyService struct {
	repo        repository.CompaniesRepository
	phoneRegion string
	log         zerolog.Logger
}

// NewCompanyService constructs a CompanyService. phoneRegion is the default region for local phone numbers.
func NewCompanyService(repo repository.CompaniesRepository, phoneRegion string, log zerolog.Logger) *CompanyService {
	return &CompanyService{repo: repo, phoneRegion: phoneRegion, log: log.With().Str("component", "companies").Logger()}
}

func (s *CompanyService) List(ctx context.Context) ([]entity.Company, error) {
	return s.repo.List(ctx)
}

// Summaries returns the public id and name projection ordered by name.
func (s *CompanyService) Summaries(ctx context.Context) ([]dto.CompanySummary, error) {
	return s.repo.Summaries(ctx)
}

func (s *CompanyService) Get(ctx context.Context, id int64) (*entity.Company, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CompanyService) GetByEmail(ctx context.Context, email string) (*entity.Company, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

func (s *CompanyService) GetByName(ctx context.Context, name string) (*entity.Company, error) {
	return s.repo.FindByName(ctx, strings.TrimSpace(name))
}

// Create validates and stores a company.
func (s *CompanyService) Create(ctx context.Context, req dto.CompanyRequest) (*entity.Company, error) {
	params, err := s.params(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, 0, params); err != nil {
		return nil, err
	}

	company, err := s.repo.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("company_id", company.ID).Str("company_name", company.CompanyName).Msg("company created")
	return company, nil
}

// Update replaces a company's fields. Uniqueness ignores the company itself.
func (s *CompanyService) Update(ctx context.Context, id int64, req dto.CompanyRequest) (*entity.Company, error) {
	params, err := s.params(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, id, params); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes a company and, through the schema, its requests.
func (s *CompanyService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("company_id", id).Msg("company deleted")
	return nil
}

func (s *CompanyService) params(req dto.CompanyRequest) (repository.CompanyParams, error) {
	name, err := normalizeCompanyName(req.CompanyName)
	if err != nil {
		return repository.CompanyParams{}, err
	}
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return repository.CompanyParams{}, err
	}

	params := repository.CompanyParams{CompanyName: name, Email: email}
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		phone, err := NormalizePhone(*req.Phone, s.phoneRegion)
		if err != nil {
			return repository.CompanyParams{}, err
		}
		params.Phone = &phone
	}
	return params, nil
}

// checkUnique compares names and emails case-insensitively against other companies.
func (s *CompanyService) checkUnique(ctx context.Context, selfID int64, params repository.CompanyParams) error {
	existing, err := s.repo.FindByName(ctx, params.CompanyName)
	switch {
	case err == nil && existing.ID != selfID:
		return repository.ErrCompanyNameDuplicate
	case err != nil && !errors.Is(err, repository.ErrCompanyNotFound):
		return err
	}

	existing, err = s.repo.FindByEmail(ctx, params.Email)
	switch {
	case err == nil && existing.ID != selfID:
		return repository.ErrCompanyEmailDuplicate
	case err != nil && !errors.Is(err, repository.ErrCompanyNotFound):
		return err
	}
	return nil
}

// SearchByName matches a case-insensitive fragment. A blank fragment lists everything.
func (s *CompanyService) SearchByName(ctx context.Context, fragment string) ([]entity.Company, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return s.repo.List(ctx)
	}
	return s.repo.SearchByName(ctx, fragment)
}

// SearchByEmail matches a case-insensitive fragment. A blank fragment lists everything.
func (s *CompanyService) SearchByEmail(ctx context.Context, fragment string) ([]entity.Company, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return s.repo.List(ctx)
	}
	return s.repo.SearchByEmail(ctx, fragment)
}

// Page returns a zero-indexed page of companies ordered by name.
func (s *CompanyService) Page(ctx context.Context, page, size int) (*dto.Page[entity.Company], error) {
	if page < 0 {
		return nil, invalid("page", "must be zero or greater")
	}
	if size < 1 || size > MaxPageSize {
		return nil, invalid("size", "must be between 1 and %d", MaxPageSize)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.repo.ListPage(ctx, size, page*size)
	if err != nil {
		return nil, err
	}
	result := dto.NewPage(companies, page, size, total)
	return &result, nil
}

func (s *CompanyService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *CompanyService) Statistics(ctx context.Context) (*dto.CompanyStatistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *CompanyService) Names(ctx context.Context) ([]string, error) {
	return s.repo.Names(ctx)
}

func (s *CompanyService) Emails(ctx context.Context) ([]string, error) {
	return s.repo.Emails(ctx)
}

// CheckEmail reports whether an address is well formed and already used by a company.
func (s *CompanyService) CheckEmail(ctx context.Context, raw string) (*dto.Availability, error) {
	email, err := NormalizeEmail(raw)
	if err != nil {
		return &dto.Availability{Value: raw}, nil
	}
	exists, err := found(s.repo.FindByEmail(ctx, email))
	if err != nil {
		return nil, err
	}
	return &dto.Availability{Value: email, Exists: exists, Available: !exists}, nil
}

// CheckName reports whether a company name is acceptable and already taken.
func (s *CompanyService) CheckName(ctx context.Context, raw string) (*dto.Availability, error) {
	name, err := normalizeCompanyName(raw)
	if err != nil {
		return &dto.Availability{Value: raw}, nil
	}
	exists, err := found(s.repo.FindByName(ctx, name))
	if err != nil {
		return nil, err
	}
	return &dto.Availability{Value: name, Exists: exists, Available: !exists}, nil
}

func found(_ *entity.Company, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrCompanyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// InitDefaults creates the well-known companies that are missing and returns how many were added.
func (s *CompanyService) InitDefaults(ctx context.Context) (int, error) {
	created := 0
	for _, params := range defaultCompanies {
		if _, err := s.repo.FindByName(ctx, params.CompanyName); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrCompanyNotFound) {
			return created, err
		}
		ok, err := s.repo.InsertIfMissing(ctx, params)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	if created > 0 {
		s.log.Info().Int("created", created).Msg("default companies created")
	}
	return created, nil
}

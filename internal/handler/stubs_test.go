package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/middleware"
	"github.com/helha/gdpr-app/internal/repository"
)

type stubUsersRepo struct {
	findByEmailFn func(ctx context.Context, email string) (*entity.User, error)
	findByIDFn    func(ctx context.Context, id int64) (*entity.User, error)
	createFn      func(ctx context.Context, params repository.CreateUserParams) (*entity.User, error)
	listFn        func(ctx context.Context) ([]entity.User, error)
	updateFn      func(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error)
	deleteFn      func(ctx context.Context, id int64) error
}

func (s *stubUsersRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if s.findByEmailFn != nil {
		return s.findByEmailFn(ctx, email)
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUsersRepo) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubUsersRepo) Create(ctx context.Context, params repository.CreateUserParams) (*entity.User, error) {
	if s.createFn != nil {
		return s.createFn(ctx, params)
	}
	return nil, errors.New("create not implemented")
}

func (s *stubUsersRepo) List(ctx context.Context) ([]entity.User, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, errors.New("list not implemented")
}

func (s *stubUsersRepo) ListActive(ctx context.Context) ([]entity.User, error) {
	return nil, errors.New("list active not implemented")
}

func (s *stubUsersRepo) ListByRole(ctx context.Context, roleID int64) ([]entity.User, error) {
	return nil, errors.New("list by role not implemented")
}

func (s *stubUsersRepo) Update(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, params)
	}
	return nil, errors.New("update not implemented")
}

func (s *stubUsersRepo) Delete(ctx context.Context, id int64) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return errors.New("delete not implemented")
}

func (s *stubUsersRepo) Counts(ctx context.Context) (int64, int64, error) {
	return 0, 0, errors.New("counts not implemented")
}

var testRoles = []entity.Role{
	{ID: 1, Name: entity.RoleAdmin},
	{ID: 2, Name: entity.RoleClient},
	{ID: 3, Name: entity.RoleGerant},
	{ID: 4, Name: "AUDITOR"},
}

type stubRolesRepo struct {
	countUsersFn func(ctx context.Context, id int64) (int64, error)
	deleted      []int64
}

func (s *stubRolesRepo) List(ctx context.Context) ([]entity.Role, error) {
	return testRoles, nil
}

func (s *stubRolesRepo) FindByID(ctx context.Context, id int64) (*entity.Role, error) {
	for _, r := range testRoles {
		if r.ID == id {
			role := r
			return &role, nil
		}
	}
	return nil, repository.ErrRoleNotFound
}

func (s *stubRolesRepo) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	for _, r := range testRoles {
		if r.Name == name {
			role := r
			return &role, nil
		}
	}
	return nil, repository.ErrRoleNotFound
}

func (s *stubRolesRepo) Create(ctx context.Context, name string) (*entity.Role, error) {
	return &entity.Role{ID: 10, Name: name}, nil
}

func (s *stubRolesRepo) Update(ctx context.Context, id int64, name string) (*entity.Role, error) {
	return &entity.Role{ID: id, Name: name}, nil
}

func (s *stubRolesRepo) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRolesRepo) CountUsers(ctx context.Context, id int64) (int64, error) {
	if s.countUsersFn != nil {
		return s.countUsersFn(ctx, id)
	}
	return 0, nil
}

func (s *stubRolesRepo) UserCounts(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (s *stubRolesRepo) EnsureDefaults(ctx context.Context, names []string) (int, error) {
	return 0, nil
}

type stubCompaniesRepo struct {
	companies []entity.Company
	lastLimit int
	lastOff   int
	created   []repository.CompanyParams
	insertFn  func(ctx context.Context, params repository.CompanyParams) (bool, error)
}

func (s *stubCompaniesRepo) List(ctx context.Context) ([]entity.Company, error) {
	return s.companies, nil
}

func (s *stubCompaniesRepo) FindByID(ctx context.Context, id int64) (*entity.Company, error) {
	for _, c := range s.companies {
		if c.ID == id {
			company := c
			return &company, nil
		}
	}
	return nil, repository.ErrCompanyNotFound
}

func (s *stubCompaniesRepo) FindByEmail(ctx context.Context, email string) (*entity.Company, error) {
	for _, c := range s.companies {
		if c.Email == email {
			company := c
			return &company, nil
		}
	}
	return nil, repository.ErrCompanyNotFound
}

func (s *stubCompaniesRepo) FindByName(ctx context.Context, name string) (*entity.Company, error) {
	for _, c := range s.companies {
		if strings.EqualFold(c.CompanyName, name) {
			company := c
			return &company, nil
		}
	}
	return nil, repository.ErrCompanyNotFound
}

func (s *stubCompaniesRepo) Create(ctx context.Context, params repository.CompanyParams) (*entity.Company, error) {
	s.created = append(s.created, params)
	return &entity.Company{ID: int64(len(s.companies) + 1), CompanyName: params.CompanyName, Email: params.Email, Phone: params.Phone}, nil
}

func (s *stubCompaniesRepo) Update(ctx context.Context, id int64, params repository.CompanyParams) (*entity.Company, error) {
	return &entity.Company{ID: id, CompanyName: params.CompanyName, Email: params.Email, Phone: params.Phone}, nil
}

func (s *stubCompaniesRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (s *stubCompaniesRepo) SearchByName(ctx context.Context, fragment string) ([]entity.Company, error) {
	return s.companies, nil
}

func (s *stubCompaniesRepo) SearchByEmail(ctx context.Context, fragment string) ([]entity.Company, error) {
	return s.companies, nil
}

func (s *stubCompaniesRepo) ListPage(ctx context.Context, limit, offset int) ([]entity.Company, error) {
	s.lastLimit, s.lastOff = limit, offset
	return s.companies, nil
}

func (s *stubCompaniesRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.companies)), nil
}

func (s *stubCompaniesRepo) Summaries(ctx context.Context) ([]dto.CompanySummary, error) {
	out := make([]dto.CompanySummary, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, dto.CompanySummary{ID: c.ID, CompanyName: c.CompanyName})
	}
	return out, nil
}

func (s *stubCompaniesRepo) Names(ctx context.Context) ([]string, error) {
	return nil, errors.New("names not implemented")
}

func (s *stubCompaniesRepo) Emails(ctx context.Context) ([]string, error) {
	return nil, errors.New("emails not implemented")
}

func (s *stubCompaniesRepo) Statistics(ctx context.Context) (dto.CompanyStatistics, error) {
	return dto.CompanyStatistics{}, errors.New("statistics not implemented")
}

func (s *stubCompaniesRepo) InsertIfMissing(ctx context.Context, params repository.CompanyParams) (bool, error) {
	if s.insertFn != nil {
		return s.insertFn(ctx, params)
	}
	return false, errors.New("insert not implemented")
}

type stubRequestsRepo struct {
	requests   map[int64]*entity.GDPRRequest
	lastFilter repository.RequestFilter
	created    *entity.GDPRRequest
}

func (s *stubRequestsRepo) Create(ctx context.Context, req *entity.GDPRRequest) (*entity.GDPRRequest, error) {
	out := *req
	out.ID = 100
	s.created = &out
	return &out, nil
}

func (s *stubRequestsRepo) FindByID(ctx context.Context, id int64) (*entity.GDPRRequest, error) {
	if req, ok := s.requests[id]; ok {
		out := *req
		return &out, nil
	}
	return nil, repository.ErrRequestNotFound
}

func (s *stubRequestsRepo) List(ctx context.Context, filter repository.RequestFilter) ([]entity.GDPRRequest, error) {
	s.lastFilter = filter
	return []entity.GDPRRequest{}, nil
}

func (s *stubRequestsRepo) Count(ctx context.Context, filter repository.RequestFilter) (int64, error) {
	s.lastFilter = filter
	return 3, nil
}

func (s *stubRequestsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	return errors.New("update status not implemented")
}

func (s *stubRequestsRepo) UpdateContent(ctx context.Context, id int64, content *string) error {
	return errors.New("update content not implemented")
}

func (s *stubRequestsRepo) Delete(ctx context.Context, id int64) error {
	return errors.New("delete not implemented")
}

func (s *stubRequestsRepo) Statistics(ctx context.Context, companyID *int64) (dto.GDPRStatistics, error) {
	return dto.GDPRStatistics{}, errors.New("statistics not implemented")
}

// nopNotifier accepts every notification without sending anything.
type nopNotifier struct{}

func (nopNotifier) Welcome(context.Context, *entity.User, string) error { return nil }

func (nopNotifier) PasswordReset(context.Context, *entity.User, string, time.Duration) error {
	return nil
}

func (nopNotifier) AccountDeactivated(context.Context, *entity.User) error { return nil }

func (nopNotifier) RequestFiled(context.Context, *entity.GDPRRequest) error { return nil }

func (nopNotifier) RequestStatusChanged(context.Context, *entity.GDPRRequest, string) error {
	return nil
}

// newContext builds an echo context with the validator installed and, when role is set,
// the values the JWT middleware would have stored.
func newContext(method, target, body string, userID int64, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewRequestValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.ContextKeyUserID, strconv.FormatInt(userID, 10))
		c.Set(middleware.ContextKeyUserEmail, "user"+strconv.FormatInt(userID, 10)+"@example.com")
		c.Set(middleware.ContextKeyUserRole, role)
	}
	return c, rec
}

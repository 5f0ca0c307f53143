package service

import (
	"context"
	"errors"
	"time"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

type mockUsersRepository struct {
	findByEmail func(ctx context.Context, email string) (*entity.User, error)
	findByID    func(ctx context.Context, id int64) (*entity.User, error)
	create      func(ctx context.Context, params repository.CreateUserParams) (*entity.User, error)
	list        func(ctx context.Context) ([]entity.User, error)
	listActive  func(ctx context.Context) ([]entity.User, error)
	listByRole  func(ctx context.Context, roleID int64) ([]entity.User, error)
	update      func(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error)
	delete      func(ctx context.Context, id int64) error
	counts      func(ctx context.Context) (int64, int64, error)
}

func (m *mockUsersRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmail != nil {
		return m.findByEmail(ctx, email)
	}
	return nil, errors.New("findByEmail not implemented")
}

func (m *mockUsersRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockUsersRepository) Create(ctx context.Context, params repository.CreateUserParams) (*entity.User, error) {
	if m.create != nil {
		return m.create(ctx, params)
	}
	return nil, errors.New("create not implemented")
}

func (m *mockUsersRepository) List(ctx context.Context) ([]entity.User, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockUsersRepository) ListActive(ctx context.Context) ([]entity.User, error) {
	if m.listActive != nil {
		return m.listActive(ctx)
	}
	return nil, errors.New("ListActive not implemented")
}

func (m *mockUsersRepository) ListByRole(ctx context.Context, roleID int64) ([]entity.User, error) {
	if m.listByRole != nil {
		return m.listByRole(ctx, roleID)
	}
	return nil, errors.New("ListByRole not implemented")
}

func (m *mockUsersRepository) Update(ctx context.Context, id int64, params repository.UpdateUserParams) (*entity.User, error) {
	if m.update != nil {
		return m.update(ctx, id, params)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockUsersRepository) Delete(ctx context.Context, id int64) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockUsersRepository) Counts(ctx context.Context) (int64, int64, error) {
	if m.counts != nil {
		return m.counts(ctx)
	}
	return 0, 0, errors.New("Counts not implemented")
}

type mockRolesRepository struct {
	list           func(ctx context.Context) ([]entity.Role, error)
	findByID       func(ctx context.Context, id int64) (*entity.Role, error)
	findByName     func(ctx context.Context, name string) (*entity.Role, error)
	create         func(ctx context.Context, name string) (*entity.Role, error)
	update         func(ctx context.Context, id int64, name string) (*entity.Role, error)
	delete         func(ctx context.Context, id int64) error
	countUsers     func(ctx context.Context, id int64) (int64, error)
	userCounts     func(ctx context.Context) (map[string]int64, error)
	ensureDefaults func(ctx context.Context, names []string) (int, error)
}

func (m *mockRolesRepository) List(ctx context.Context) ([]entity.Role, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockRolesRepository) FindByID(ctx context.Context, id int64) (*entity.Role, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockRolesRepository) FindByName(ctx context.Context, name string) (*entity.Role, error) {
	if m.findByName != nil {
		return m.findByName(ctx, name)
	}
	return nil, errors.New("FindByName not implemented")
}

func (m *mockRolesRepository) Create(ctx context.Context, name string) (*entity.Role, error) {
	if m.create != nil {
		return m.create(ctx, name)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockRolesRepository) Update(ctx context.Context, id int64, name string) (*entity.Role, error) {
	if m.update != nil {
		return m.update(ctx, id, name)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockRolesRepository) Delete(ctx context.Context, id int64) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockRolesRepository) CountUsers(ctx context.Context, id int64) (int64, error) {
	if m.countUsers != nil {
		return m.countUsers(ctx, id)
	}
	return 0, errors.New("CountUsers not implemented")
}

func (m *mockRolesRepository) UserCounts(ctx context.Context) (map[string]int64, error) {
	if m.userCounts != nil {
		return m.userCounts(ctx)
	}
	return nil, errors.New("UserCounts not implemented")
}

func (m *mockRolesRepository) EnsureDefaults(ctx context.Context, names []string) (int, error) {
	if m.ensureDefaults != nil {
		return m.ensureDefaults(ctx, names)
	}
	return 0, errors.New("EnsureDefaults not implemented")
}

// defaultRoles answers lookups for the three system roles with ids 1 to 3.
func defaultRoles() *mockRolesRepository {
	byID := map[int64]string{1: entity.RoleAdmin, 2: entity.RoleClient, 3: entity.RoleGerant}
	return &mockRolesRepository{
		findByID: func(ctx context.Context, id int64) (*entity.Role, error) {
			name, ok := byID[id]
			if !ok {
				return nil, repository.ErrRoleNotFound
			}
			return &entity.Role{ID: id, Name: name}, nil
		},
		findByName: func(ctx context.Context, name string) (*entity.Role, error) {
			for id, n := range byID {
				if n == name {
					return &entity.Role{ID: id, Name: n}, nil
				}
			}
			return nil, repository.ErrRoleNotFound
		},
	}
}

type mockCompaniesRepository struct {
	list            func(ctx context.Context) ([]entity.Company, error)
	findByID        func(ctx context.Context, id int64) (*entity.Company, error)
	findByEmail     func(ctx context.Context, email string) (*entity.Company, error)
	findByName      func(ctx context.Context, name string) (*entity.Company, error)
	create          func(ctx context.Context, params repository.CompanyParams) (*entity.Company, error)
	update          func(ctx context.Context, id int64, params repository.CompanyParams) (*entity.Company, error)
	delete          func(ctx context.Context, id int64) error
	searchByName    func(ctx context.Context, fragment string) ([]entity.Company, error)
	searchByEmail   func(ctx context.Context, fragment string) ([]entity.Company, error)
	listPage        func(ctx context.Context, limit, offset int) ([]entity.Company, error)
	count           func(ctx context.Context) (int64, error)
	insertIfMissing func(ctx context.Context, params repository.CompanyParams) (bool, error)
}

func (m *mockCompaniesRepository) List(ctx context.Context) ([]entity.Company, error) {
	if m.list != nil {
		return m.list(ctx)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockCompaniesRepository) FindByID(ctx context.Context, id int64) (*entity.Company, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockCompaniesRepository) FindByEmail(ctx context.Context, email string) (*entity.Company, error) {
	if m.findByEmail != nil {
		return m.findByEmail(ctx, email)
	}
	return nil, repository.ErrCompanyNotFound
}

func (m *mockCompaniesRepository) FindByName(ctx context.Context, name string) (*entity.Company, error) {
	if m.findByName != nil {
		return m.findByName(ctx, name)
	}
	return nil, repository.ErrCompanyNotFound
}

func (m *mockCompaniesRepository) Create(ctx context.Context, params repository.CompanyParams) (*entity.Company, error) {
	if m.create != nil {
		return m.create(ctx, params)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockCompaniesRepository) Update(ctx context.Context, id int64, params repository.CompanyParams) (*entity.Company, error) {
	if m.update != nil {
		return m.update(ctx, id, params)
	}
	return nil, errors.New("Update not implemented")
}

func (m *mockCompaniesRepository) Delete(ctx context.Context, id int64) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockCompaniesRepository) SearchByName(ctx context.Context, fragment string) ([]entity.Company, error) {
	if m.searchByName != nil {
		return m.searchByName(ctx, fragment)
	}
	return nil, errors.New("SearchByName not implemented")
}

func (m *mockCompaniesRepository) SearchByEmail(ctx context.Context, fragment string) ([]entity.Company, error) {
	if m.searchByEmail != nil {
		return m.searchByEmail(ctx, fragment)
	}
	return nil, errors.New("SearchByEmail not implemented")
}

func (m *mockCompaniesRepository) ListPage(ctx context.Context, limit, offset int) ([]entity.Company, error) {
	if m.listPage != nil {
		return m.listPage(ctx, limit, offset)
	}
	return nil, errors.New("ListPage not implemented")
}

func (m *mockCompaniesRepository) Count(ctx context.Context) (int64, error) {
	if m.count != nil {
		return m.count(ctx)
	}
	return 0, errors.New("Count not implemented")
}

func (m *mockCompaniesRepository) Summaries(ctx context.Context) ([]dto.CompanySummary, error) {
	return nil, errors.New("Summaries not implemented")
}

func (m *mockCompaniesRepository) Names(ctx context.Context) ([]string, error) {
	return nil, errors.New("Names not implemented")
}

func (m *mockCompaniesRepository) Emails(ctx context.Context) ([]string, error) {
	return nil, errors.New("Emails not implemented")
}

func (m *mockCompaniesRepository) Statistics(ctx context.Context) (dto.CompanyStatistics, error) {
	return dto.CompanyStatistics{}, errors.New("Statistics not implemented")
}

func (m *mockCompaniesRepository) InsertIfMissing(ctx context.Context, params repository.CompanyParams) (bool, error) {
	if m.insertIfMissing != nil {
		return m.insertIfMissing(ctx, params)
	}
	return false, errors.New("InsertIfMissing not implemented")
}

type mockRequestsRepository struct {
	create        func(ctx context.Context, req *entity.GDPRRequest) (*entity.GDPRRequest, error)
	findByID      func(ctx context.Context, id int64) (*entity.GDPRRequest, error)
	list          func(ctx context.Context, filter repository.RequestFilter) ([]entity.GDPRRequest, error)
	count         func(ctx context.Context, filter repository.RequestFilter) (int64, error)
	updateStatus  func(ctx context.Context, id int64, status string) error
	updateContent func(ctx context.Context, id int64, content *string) error
	delete        func(ctx context.Context, id int64) error
	statistics    func(ctx context.Context, companyID *int64) (dto.GDPRStatistics, error)
}

func (m *mockRequestsRepository) Create(ctx context.Context, req *entity.GDPRRequest) (*entity.GDPRRequest, error) {
	if m.create != nil {
		return m.create(ctx, req)
	}
	return nil, errors.New("Create not implemented")
}

func (m *mockRequestsRepository) FindByID(ctx context.Context, id int64) (*entity.GDPRRequest, error) {
	if m.findByID != nil {
		return m.findByID(ctx, id)
	}
	return nil, errors.New("FindByID not implemented")
}

func (m *mockRequestsRepository) List(ctx context.Context, filter repository.RequestFilter) ([]entity.GDPRRequest, error) {
	if m.list != nil {
		return m.list(ctx, filter)
	}
	return nil, errors.New("List not implemented")
}

func (m *mockRequestsRepository) Count(ctx context.Context, filter repository.RequestFilter) (int64, error) {
	if m.count != nil {
		return m.count(ctx, filter)
	}
	return 0, errors.New("Count not implemented")
}

func (m *mockRequestsRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if m.updateStatus != nil {
		return m.updateStatus(ctx, id, status)
	}
	return errors.New("UpdateStatus not implemented")
}

func (m *mockRequestsRepository) UpdateContent(ctx context.Context, id int64, content *string) error {
	if m.updateContent != nil {
		return m.updateContent(ctx, id, content)
	}
	return errors.New("UpdateContent not implemented")
}

func (m *mockRequestsRepository) Delete(ctx context.Context, id int64) error {
	if m.delete != nil {
		return m.delete(ctx, id)
	}
	return errors.New("Delete not implemented")
}

func (m *mockRequestsRepository) Statistics(ctx context.Context, companyID *int64) (dto.GDPRStatistics, error) {
	if m.statistics != nil {
		return m.statistics(ctx, companyID)
	}
	return dto.GDPRStatistics{}, errors.New("Statistics not implemented")
}

// recordingNotifier remembers which notifications were requested.
type recordingNotifier struct {
	welcomed      []string
	passwords     []string
	resetTokens   []string
	deactivated   []string
	filed         []int64
	statusChanges []string
	err           error
}

func (n *recordingNotifier) Welcome(ctx context.Context, user *entity.User, password string) error {
	n.welcomed = append(n.welcomed, user.Email)
	n.passwords = append(n.passwords, password)
	return n.err
}

func (n *recordingNotifier) PasswordReset(ctx context.Context, user *entity.User, token string, ttl time.Duration) error {
	n.resetTokens = append(n.resetTokens, token)
	return n.err
}

func (n *recordingNotifier) AccountDeactivated(ctx context.Context, user *entity.User) error {
	n.deactivated = append(n.deactivated, user.Email)
	return n.err
}

func (n *recordingNotifier) RequestFiled(ctx context.Context, req *entity.GDPRRequest) error {
	n.filed = append(n.filed, req.ID)
	return n.err
}

func (n *recordingNotifier) RequestStatusChanged(ctx context.Context, req *entity.GDPRRequest, oldStatus string) error {
	n.statusChanges = append(n.statusChanges, oldStatus+"->"+req.Status)
	return n.err
}

func stringPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }

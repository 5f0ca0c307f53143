package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
)

const recentWindow = 30 * 24 * time.Hour

// GDPRRequestService runs the request lifecycle and enforces who may see or change a request.
type GDPRRequestService struct {
	requests  repository.GDPRRequestsRepository
	users     repository.UsersRepository
	companies repository.CompaniesRepository
	notifier  Notifier
	log       zerolog.Logger
	now       func() time.Time
}

// NewGDPRRequestService constructs a GDPRRequestService.
func NewGDPRRequestService(requests repository.GDPRRequestsRepository, users repository.UsersRepository, companies repository.CompaniesRepository, notifier Notifier, log zerolog.Logger) *GDPRRequestService {
	return &GDPRRequestService{
		requests:  requests,
		users:     users,
		companies: companies,
		notifier:  notifier,
		log:       log.With().Str("component", "gdpr_requests").Logger(),
		now:       time.Now,
	}
}

// NormalizeRequestType trims and upper-cases t and checks it.
func NormalizeRequestType(t string) (string, error) {
	t = strings.ToUpper(strings.TrimSpace(t))
	if !entity.IsValidRequestType(t) {
		return "", invalid("request_type", "must be one of %s", strings.Join(entity.RequestTypes, ", "))
	}
	return t, nil
}

// NormalizeStatus trims and upper-cases s and checks it.
func NormalizeStatus(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !entity.IsValidStatus(s) {
		return "", invalid("status", "must be one of %s", strings.Join(entity.RequestStatuses, ", "))
	}
	return s, nil
}

// CheckType answers whether t is an accepted request type.
func CheckType(t string) dto.ValueCheck {
	normalized, err := NormalizeRequestType(t)
	if err != nil {
		return dto.ValueCheck{Value: t}
	}
	return dto.ValueCheck{Value: normalized, Valid: true}
}

// CheckStatus answers whether s is an accepted status.
func CheckStatus(s string) dto.ValueCheck {
	normalized, err := NormalizeStatus(s)
	if err != nil {
		return dto.ValueCheck{Value: s}
	}
	return dto.ValueCheck{Value: normalized, Valid: true}
}

// Create files a PENDING request dated now. Admins may file on behalf of another user.
func (s *GDPRRequestService) Create(ctx context.Context, actor Actor, req dto.CreateGDPRRequest) (*entity.GDPRRequest, error) {
	requestType, err := NormalizeRequestType(req.RequestType)
	if err != nil {
		return nil, err
	}
	content, err := normalizeContent(req.RequestContent)
	if err != nil {
		return nil, err
	}
	if req.CompanyID <= 0 {
		return nil, invalid("company_id", "is required")
	}

	userID := actor.UserID
	if actor.IsAdmin() && req.UserID != nil {
		userID = *req.UserID
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.companies.FindByID(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	created, err := s.requests.Create(ctx, &entity.GDPRRequest{
		RequestType:    requestType,
		Status:         entity.StatusPending,
		RequestDate:    s.now().UTC(),
		RequestContent: content,
		UserID:         userID,
		CompanyID:      req.CompanyID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("request_id", created.ID).Int64("user_id", userID).Int64("company_id", req.CompanyID).
		Str("request_type", requestType).Msg("gdpr request filed")
	notify(s.log, "request filed", s.notifier.RequestFiled(ctx, created))
	return created, nil
}

// Get returns a request visible to the actor: admins, its author and managers of its company.
func (s *GDPRRequestService) Get(ctx context.Context, actor Actor, id int64) (*entity.GDPRRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.IsAdmin(), req.UserID == actor.UserID:
		return req, nil
	case actor.IsGerant():
		if err := s.checkManages(ctx, actor, req.CompanyID); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, ErrForbidden
	}
}

// UpdateStatus moves a request to status. The author is emailed when the status actually changes.
func (s *GDPRRequestService) UpdateStatus(ctx context.Context, actor Actor, id int64, status string) (*entity.GDPRRequest, error) {
	status, err := NormalizeStatus(status)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.IsAdmin():
	case actor.IsGerant():
		if err := s.checkManages(ctx, actor, req.CompanyID); err != nil {
			return nil, err
		}
	default:
		return nil, ErrForbidden
	}

	if req.Status == status {
		return req, nil
	}
	oldStatus := req.Status
	if err := s.requests.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	updated, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("request_id", id).Str("from", oldStatus).Str("to", status).Int64("actor_id", actor.UserID).
		Msg("gdpr request status changed")
	notify(s.log, "status update", s.notifier.RequestStatusChanged(ctx, updated, oldStatus))
	return updated, nil
}

// UpdateContent edits the free text of a pending request. Only admins and the author may do so.
func (s *GDPRRequestService) UpdateContent(ctx context.Context, actor Actor, id int64, content string) (*entity.GDPRRequest, error) {
	normalized, err := normalizeContent(&content)
	if err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccessUser(req.UserID) {
		return nil, ErrForbidden
	}
	if req.Status != entity.StatusPending {
		return nil, ErrRequestNotPending
	}
	if err := s.requests.UpdateContent(ctx, id, normalized); err != nil {
		return nil, err
	}
	return s.requests.FindByID(ctx, id)
}

// Delete removes a request. Authors may only delete their pending requests.
func (s *GDPRRequestService) Delete(ctx context.Context, actor Actor, id int64) error {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		if req.UserID != actor.UserID {
			return ErrForbidden
		}
		if req.Status != entity.StatusPending {
			return ErrRequestNotPending
		}
	}
	if err := s.requests.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("request_id", id).Int64("actor_id", actor.UserID).Msg("gdpr request deleted")
	return nil
}

// List returns requests matching filter, newest first. Managers only ever see their own company.
func (s *GDPRRequestService) List(ctx context.Context, actor Actor, filter repository.RequestFilter) ([]entity.GDPRRequest, error) {
	filter, err := s.scope(ctx, actor, filter)
	if err != nil {
		return nil, err
	}
	return s.requests.List(ctx, filter)
}

// Count counts requests matching filter with the same scoping as List.
func (s *GDPRRequestService) Count(ctx context.Context, actor Actor, filter repository.RequestFilter) (int64, error) {
	filter, err := s.scope(ctx, actor, filter)
	if err != nil {
		return 0, err
	}
	return s.requests.Count(ctx, filter)
}

// ListMine returns the actor's own requests, optionally narrowed to one status.
func (s *GDPRRequestService) ListMine(ctx context.Context, actor Actor, status string) ([]entity.GDPRRequest, error) {
	filter := repository.RequestFilter{UserID: &actor.UserID}
	if status != "" {
		normalized, err := NormalizeStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = normalized
	}
	return s.requests.List(ctx, filter)
}

// ListRecent returns requests filed within the last 30 days.
func (s *GDPRRequestService) ListRecent(ctx context.Context, actor Actor) ([]entity.GDPRRequest, error) {
	from := s.now().Add(-recentWindow)
	return s.List(ctx, actor, repository.RequestFilter{From: &from})
}

// ListByDateRange returns requests filed between start and end inclusive.
// Both bounds accept RFC 3339 or YYYY-MM-DD. A date-only end covers the whole day.
func (s *GDPRRequestService) ListByDateRange(ctx context.Context, actor Actor, start, end string) ([]entity.GDPRRequest, error) {
	from, err := parseBound("start", start, false)
	if err != nil {
		return nil, err
	}
	to, err := parseBound("end", end, true)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, invalid("start", "must not be after end")
	}
	return s.List(ctx, actor, repository.RequestFilter{From: &from, To: &to})
}

// Statistics counts requests by status and type, for one company when companyID is set.
func (s *GDPRRequestService) Statistics(ctx context.Context, actor Actor, companyID *int64) (*dto.GDPRStatistics, error) {
	filter, err := s.scope(ctx, actor, repository.RequestFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	stats, err := s.requests.Statistics(ctx, filter.CompanyID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// scope restricts a manager's filter to their company and rejects other companies.
func (s *GDPRRequestService) scope(ctx context.Context, actor Actor, filter repository.RequestFilter) (repository.RequestFilter, error) {
	switch {
	case actor.IsAdmin():
		return filter, nil
	case actor.IsGerant():
		companyID, err := s.managedCompany(ctx, actor)
		if err != nil {
			return filter, err
		}
		if filter.CompanyID != nil && *filter.CompanyID != companyID {
			return filter, ErrForbidden
		}
		filter.CompanyID = &companyID
		return filter, nil
	default:
		return filter, ErrForbidden
	}
}

func (s *GDPRRequestService) checkManages(ctx context.Context, actor Actor, companyID int64) error {
	managed, err := s.managedCompany(ctx, actor)
	if err != nil {
		return err
	}
	if managed != companyID {
		return ErrForbidden
	}
	return nil
}

// managedCompany returns the company a manager is attached to.
func (s *GDPRRequestService) managedCompany(ctx context.Context, actor Actor) (int64, error) {
	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, ErrForbidden
		}
		return 0, err
	}
	if user.CompanyID == nil {
		return 0, ErrForbidden
	}
	return *user.CompanyID, nil
}

const dateOnly = "2006-01-02"

func parseBound(field, raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalid(field, "is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateOnly, raw)
	if err != nil {
		return time.Time{}, invalid(field, "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

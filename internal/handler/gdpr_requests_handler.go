package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/entity"
	"github.com/helha/gdpr-app/internal/repository"
	"github.com/helha/gdpr-app/internal/service"
)

// GDPRRequestsHandler exposes the GDPR request lifecycle.
type GDPRRequestsHandler struct {
	requests *service.GDPRRequestService
}

// NewGDPRRequestsHandler constructs a handler instance.
func NewGDPRRequestsHandler(requests *service.GDPRRequestService) *GDPRRequestsHandler {
	return &GDPRRequestsHandler{requests: requests}
}

// Create handles POST /gdpr-requests.
func (h *GDPRRequestsHandler) Create(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	var req dto.CreateGDPRRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	created, err := h.requests.Create(c.Request().Context(), a, req)
	if err != nil {
		return respondError(c, err, "failed to create gdpr request")
	}
	return Success(c, http.StatusCreated, "gdpr request created", created)
}

// Get handles GET /gdpr-requests/:id.
func (h *GDPRRequestsHandler) Get(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "request id")
	}
	req, err := h.requests.Get(c.Request().Context(), a, id)
	if err != nil {
		return respondError(c, err, "failed to load gdpr request")
	}
	return Success(c, http.StatusOK, "gdpr request retrieved", req)
}

// UpdateStatus handles PUT /gdpr-requests/:id/status.
func (h *GDPRRequestsHandler) UpdateStatus(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "request id")
	}
	var req dto.UpdateStatusRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	updated, err := h.requests.UpdateStatus(c.Request().Context(), a, id, req.Status)
	if err != nil {
		return respondError(c, err, "failed to update gdpr request status")
	}
	return Success(c, http.StatusOK, "gdpr request status updated", updated)
}

// UpdateContent handles PUT /gdpr-requests/:id/content.
func (h *GDPRRequestsHandler) UpdateContent(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "request id")
	}
	var req dto.UpdateContentRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	updated, err := h.requests.UpdateContent(c.Request().Context(), a, id, req.RequestContent)
	if err != nil {
		return respondError(c, err, "failed to update gdpr request")
	}
	return Success(c, http.StatusOK, "gdpr request updated", updated)
}

// Delete handles DELETE /gdpr-requests/:id.
func (h *GDPRRequestsHandler) Delete(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "request id")
	}
	if err := h.requests.Delete(c.Request().Context(), a, id); err != nil {
		return respondError(c, err, "failed to delete gdpr request")
	}
	return Success(c, http.StatusOK, "gdpr request deleted", nil)
}

// List handles GET /gdpr-requests.
func (h *GDPRRequestsHandler) List(c echo.Context) error {
	return h.list(c, repository.RequestFilter{})
}

// ListByUser handles GET /gdpr-requests/user/:userId.
func (h *GDPRRequestsHandler) ListByUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return invalidID(c, "user id")
	}
	return h.list(c, repository.RequestFilter{UserID: &userID})
}

// ListByCompany handles GET /gdpr-requests/company/:companyId.
func (h *GDPRRequestsHandler) ListByCompany(c echo.Context) error {
	companyID, ok := pathID(c, "companyId")
	if !ok {
		return invalidID(c, "company id")
	}
	return h.list(c, repository.RequestFilter{CompanyID: &companyID})
}

// ListPendingByCompany handles GET /gdpr-requests/company/:companyId/pending.
func (h *GDPRRequestsHandler) ListPendingByCompany(c echo.Context) error {
	companyID, ok := pathID(c, "companyId")
	if !ok {
		return invalidID(c, "company id")
	}
	return h.list(c, repository.RequestFilter{CompanyID: &companyID, Status: entity.StatusPending})
}

// ListByStatus handles GET /gdpr-requests/status/:status.
func (h *GDPRRequestsHandler) ListByStatus(c echo.Context) error {
	status, err := service.NormalizeStatus(c.Param("status"))
	if err != nil {
		return respondError(c, err, "invalid status")
	}
	return h.list(c, repository.RequestFilter{Status: status})
}

// ListByType handles GET /gdpr-requests/type/:type.
func (h *GDPRRequestsHandler) ListByType(c echo.Context) error {
	requestType, err := service.NormalizeRequestType(c.Param("type"))
	if err != nil {
		return respondError(c, err, "invalid request type")
	}
	return h.list(c, repository.RequestFilter{Type: requestType})
}

func (h *GDPRRequestsHandler) list(c echo.Context, filter repository.RequestFilter) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	requests, err := h.requests.List(c.Request().Context(), a, filter)
	if err != nil {
		return respondError(c, err, "failed to list gdpr requests")
	}
	return Success(c, http.StatusOK, "gdpr requests retrieved", requests)
}

// ListMine handles GET /gdpr-requests/my-requests and /my-requests/status/:status.
func (h *GDPRRequestsHandler) ListMine(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	requests, err := h.requests.ListMine(c.Request().Context(), a, c.Param("status"))
	if err != nil {
		return respondError(c, err, "failed to list gdpr requests")
	}
	return Success(c, http.StatusOK, "gdpr requests retrieved", requests)
}

// ListRecent handles GET /gdpr-requests/recent.
func (h *GDPRRequestsHandler) ListRecent(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	requests, err := h.requests.ListRecent(c.Request().Context(), a)
	if err != nil {
		return respondError(c, err, "failed to list gdpr requests")
	}
	return Success(c, http.StatusOK, "gdpr requests retrieved", requests)
}

// ListByDateRange handles GET /gdpr-requests/date-range?start=&end=.
func (h *GDPRRequestsHandler) ListByDateRange(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	requests, err := h.requests.ListByDateRange(c.Request().Context(), a, c.QueryParam("start"), c.QueryParam("end"))
	if err != nil {
		return respondError(c, err, "failed to list gdpr requests")
	}
	return Success(c, http.StatusOK, "gdpr requests retrieved", requests)
}

// CountByStatus handles GET /gdpr-requests/count/status/:status.
func (h *GDPRRequestsHandler) CountByStatus(c echo.Context) error {
	status, err := service.NormalizeStatus(c.Param("status"))
	if err != nil {
		return respondError(c, err, "invalid status")
	}
	return h.count(c, repository.RequestFilter{Status: status})
}

// CountByCompany handles GET /gdpr-requests/count/company/:companyId.
func (h *GDPRRequestsHandler) CountByCompany(c echo.Context) error {
	companyID, ok := pathID(c, "companyId")
	if !ok {
		return invalidID(c, "company id")
	}
	return h.count(c, repository.RequestFilter{CompanyID: &companyID})
}

func (h *GDPRRequestsHandler) count(c echo.Context, filter repository.RequestFilter) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	n, err := h.requests.Count(c.Request().Context(), a, filter)
	if err != nil {
		return respondError(c, err, "failed to count gdpr requests")
	}
	return Success(c, http.StatusOK, "gdpr request count retrieved", dto.CountResponse{Count: n})
}

// Statistics handles GET /gdpr-requests/statistics with an optional company_id query.
func (h *GDPRRequestsHandler) Statistics(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	var companyID *int64
	if raw := strings.TrimSpace(c.QueryParam("company_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return invalidID(c, "company_id")
		}
		companyID = &parsed
	}

	stats, err := h.requests.Statistics(c.Request().Context(), a, companyID)
	if err != nil {
		return respondError(c, err, "failed to compute gdpr statistics")
	}
	return Success(c, http.StatusOK, "gdpr statistics retrieved", stats)
}

func (h *GDPRRequestsHandler) ValidTypes(c echo.Context) error {
	return Success(c, http.StatusOK, "request types retrieved", entity.RequestTypes)
}

func (h *GDPRRequestsHandler) ValidateType(c echo.Context) error {
	return Success(c, http.StatusOK, "request type checked", service.CheckType(c.Param("type")))
}

func (h *GDPRRequestsHandler) ValidStatuses(c echo.Context) error {
	return Success(c, http.StatusOK, "request statuses retrieved", entity.RequestStatuses)
}

func (h *GDPRRequestsHandler) ValidateStatus(c echo.Context) error {
	return Success(c, http.StatusOK, "request status checked", service.CheckStatus(c.Param("status")))
}

package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/service"
)

// CompaniesHandler exposes company catalogue endpoints.
type CompaniesHandler struct {
	service *service.CompanyService
}

// NewCompaniesHandler creates a new handler instance.
func NewCompaniesHandler(service *service.CompanyService) *CompaniesHandler {
	return &CompaniesHandler{service: service}
}

// Summaries handles the public GET /companies/list request.
func (h *CompaniesHandler) Summaries(c echo.Context) error {
	companies, err := h.service.Summaries(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list companies")
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// List handles GET /companies requests.
func (h *CompaniesHandler) List(c echo.Context) error {
	companies, err := h.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list companies")
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// Get handles GET /companies/:id.
func (h *CompaniesHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "company id")
	}
	company, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to load company")
	}
	return Success(c, http.StatusOK, "company retrieved", company)
}

func (h *CompaniesHandler) GetByEmail(c echo.Context) error {
	company, err := h.service.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return respondError(c, err, "failed to load company")
	}
	return Success(c, http.StatusOK, "company retrieved", company)
}

func (h *CompaniesHandler) GetByName(c echo.Context) error {
	company, err := h.service.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondError(c, err, "failed to load company")
	}
	return Success(c, http.StatusOK, "company retrieved", company)
}

// Create handles POST /companies.
func (h *CompaniesHandler) Create(c echo.Context) error {
	var req dto.CompanyRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	company, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to create company")
	}
	return Success(c, http.StatusCreated, "company created", company)
}

// Update handles PUT /companies/:id.
func (h *CompaniesHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "company id")
	}
	var req dto.CompanyRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	company, err := h.service.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "failed to update company")
	}
	return Success(c, http.StatusOK, "company updated", company)
}

// Delete handles DELETE /companies/:id. Requests of the company are removed with it.
func (h *CompaniesHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "company id")
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "failed to delete company")
	}
	return Success(c, http.StatusOK, "company deleted", nil)
}

func (h *CompaniesHandler) SearchByName(c echo.Context) error {
	companies, err := h.service.SearchByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return respondError(c, err, "failed to search companies")
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

func (h *CompaniesHandler) SearchByEmail(c echo.Context) error {
	companies, err := h.service.SearchByEmail(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return respondError(c, err, "failed to search companies")
	}
	return Success(c, http.StatusOK, "companies retrieved", companies)
}

// Paginated handles GET /companies/paginated?page=0&size=10. Pages are zero based.
func (h *CompaniesHandler) Paginated(c echo.Context) error {
	page := parseIntDefault(strings.TrimSpace(c.QueryParam("page")), 0)
	size := parseIntDefault(strings.TrimSpace(c.QueryParam("size")), service.DefaultPageSize)

	result, err := h.service.Page(c.Request().Context(), page, size)
	if err != nil {
		return respondError(c, err, "failed to list companies")
	}
	return Success(c, http.StatusOK, "companies retrieved", result)
}

func (h *CompaniesHandler) Count(c echo.Context) error {
	n, err := h.service.Count(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to count companies")
	}
	return Success(c, http.StatusOK, "company count retrieved", dto.CountResponse{Count: n})
}

func (h *CompaniesHandler) Statistics(c echo.Context) error {
	stats, err := h.service.Statistics(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to compute company statistics")
	}
	return Success(c, http.StatusOK, "company statistics retrieved", stats)
}

// CheckEmail serves both validate/email/:email and exists/email/:email.
func (h *CompaniesHandler) CheckEmail(c echo.Context) error {
	result, err := h.service.CheckEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return respondError(c, err, "failed to check company email")
	}
	return Success(c, http.StatusOK, "company email checked", result)
}

// CheckName serves both validate/name/:name and exists/name/:name.
func (h *CompaniesHandler) CheckName(c echo.Context) error {
	result, err := h.service.CheckName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondError(c, err, "failed to check company name")
	}
	return Success(c, http.StatusOK, "company name checked", result)
}

func (h *CompaniesHandler) InitDefaults(c echo.Context) error {
	created, err := h.service.InitDefaults(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to create default companies")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("created %d default companies", created), dto.CountResponse{Count: int64(created)})
}

func (h *CompaniesHandler) Names(c echo.Context) error {
	names, err := h.service.Names(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list company names")
	}
	return Success(c, http.StatusOK, "company names retrieved", names)
}

func (h *CompaniesHandler) Emails(c echo.Context) error {
	emails, err := h.service.Emails(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list company emails")
	}
	return Success(c, http.StatusOK, "company emails retrieved", emails)
}

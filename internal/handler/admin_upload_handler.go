package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/service"
)

// AdminUploadHandler handles CSV ingestion for administrators.
type AdminUploadHandler struct {
	companies *service.CompanyService
}

// NewAdminUploadHandler wires a handler backed by the company service.
func NewAdminUploadHandler(companies *service.CompanyService) *AdminUploadHandler {
	return &AdminUploadHandler{companies: companies}
}

// ImportCompanies handles POST /api/companies/import with a multipart "file" field.
func (h *AdminUploadHandler) ImportCompanies(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	summary, err := h.companies.ImportCSV(c.Request().Context(), file)
	if err != nil {
		return respondError(c, err, "failed to process csv")
	}
	return Success(c, http.StatusOK, "companies CSV processed", summary)
}

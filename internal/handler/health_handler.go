package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports that the process is serving requests.
func Health(c echo.Context) error {
	return Success(c, http.StatusOK, "", map[string]string{"status": "ok"})
}

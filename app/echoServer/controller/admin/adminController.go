package admin

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	adminsvc "github.com/jnvillamor/smart-parking-app/service/admin"
)

type Controller struct {
	Svc adminsvc.Service
	Log *slog.Logger
}

// GET /v1/admin/dashboard
func (h *Controller) Dashboard(c echo.Context) error {
	sum, err := h.Svc.Dashboard(c.Request().Context())
	if err != nil {
		h.Log.Error("dashboard", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, sum)
}

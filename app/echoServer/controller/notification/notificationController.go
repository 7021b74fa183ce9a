package notification

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/jnvillamor/smart-parking-app/app/echoServer/jwtx"
	notifsvc "github.com/jnvillamor/smart-parking-app/service/notification"
)

type Controller struct {
	Svc notifsvc.Service
	Log *slog.Logger
}

// GET /v1/notifications
func (h *Controller) Feed(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	feed, err := h.Svc.Feed(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("notification feed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, feed)
}

// POST /v1/notifications/:id/toggle-read
func (h *Controller) ToggleRead(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	n, err := h.Svc.ToggleRead(c.Request().Context(), id, uid)
	if err != nil {
		if notifsvc.Code(err) == notifsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "notification not found"})
		}
		h.Log.Error("notification toggle", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notification updated", "notification": n})
}

// POST /v1/notifications/read-all
func (h *Controller) MarkAllRead(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	n, err := h.Svc.MarkAllRead(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("notification read-all", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notifications marked read", "updated": n})
}

// DELETE /v1/notifications/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id, uid); err != nil {
		if notifsvc.Code(err) == notifsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "notification not found"})
		}
		h.Log.Error("notification delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notification deleted"})
}

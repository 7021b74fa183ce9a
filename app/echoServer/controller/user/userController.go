package user

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jnvillamor/smart-parking-app/app/echoServer/jwtx"
	"github.com/jnvillamor/smart-parking-app/model"
	usersvc "github.com/jnvillamor/smart-parking-app/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// PUT /v1/users/:id
func (h *Controller) UpdateProfile(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req model.UpdateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	u, err := h.Svc.UpdateProfile(c.Request().Context(), uid, id, req)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case usersvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case usersvc.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		default:
			h.Log.Error("profile update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated", "user": u})
}

// POST /v1/users/:id/toggle-active
func (h *Controller) ToggleActive(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	u, err := h.Svc.ToggleActive(c.Request().Context(), id)
	if err != nil {
		if usersvc.Code(err) == usersvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("user toggle", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user updated", "user": u})
}

// GET /v1/users
func (h *Controller) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, total, err := h.Svc.List(c.Request().Context(), c.QueryParam("search"), limit, offset)
	if err != nil {
		h.Log.Error("user list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": users, "total": total})
}

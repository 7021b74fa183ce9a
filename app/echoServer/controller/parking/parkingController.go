package parking

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jnvillamor/smart-parking-app/model"
	parkingsvc "github.com/jnvillamor/smart-parking-app/service/parking"
)

type Controller struct {
	Svc parkingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/parking
func (h *Controller) Create(c echo.Context) error {
	var req model.ParkingLotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	lot, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNameTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "parking lot name already exists"})
		case parkingsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("parking create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "parking lot created", "parking_lot": lot})
}

// GET /v1/parking/:id
func (h *Controller) Detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	lot, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if parkingsvc.Code(err) == parkingsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "parking lot not found"})
		}
		h.Log.Error("parking detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"parking_lot": lot})
}

// PUT /v1/parking/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	var req model.ParkingLotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	lot, err := h.Svc.Update(c.Request().Context(), id, req)
	if err != nil {
		switch parkingsvc.Code(err) {
		case parkingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "parking lot not found"})
		case parkingsvc.ErrNameTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "parking lot name already exists"})
		case parkingsvc.ErrBadInput:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "bad input"})
		default:
			h.Log.Error("parking update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "parking lot updated", "parking_lot": lot})
}

// DELETE /v1/parking/:id
func (h *Controller) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		if parkingsvc.Code(err) == parkingsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "parking lot not found"})
		}
		h.Log.Error("parking delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "parking lot deleted"})
}

// POST /v1/parking/:id/toggle-active
func (h *Controller) ToggleActive(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	lot, err := h.Svc.ToggleActive(c.Request().Context(), id)
	if err != nil {
		if parkingsvc.Code(err) == parkingsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "parking lot not found"})
		}
		h.Log.Error("parking toggle", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "parking lot updated", "parking_lot": lot})
}

// GET /v1/parking
func (h *Controller) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	lots, total, err := h.Svc.List(c.Request().Context(), parkingsvc.ListFilter{
		Name:   c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.Log.Error("parking list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": lots, "total": total})
}

// GET /v1/parking-summary
func (h *Controller) Summary(c echo.Context) error {
	sum, err := h.Svc.Summary(c.Request().Context())
	if err != nil {
		h.Log.Error("parking summary", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, sum)
}

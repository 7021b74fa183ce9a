package reservation

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jnvillamor/smart-parking-app/app/echoServer/jwtx"
	"github.com/jnvillamor/smart-parking-app/model"
	ressvc "github.com/jnvillamor/smart-parking-app/service/reservation"
)

type Controller struct {
	Svc ressvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Create a reservation
// @Summary      Create reservation
// @Description  Reserve a slot in a parking lot for a time interval
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Param        payload  body  model.CreateReservationReq  true  "Reservation payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  map[string]any "admins cannot reserve"
// @Failure      404  {object}  map[string]any "parking lot not found"
// @Failure      409  {object}  map[string]any "lot full or overlapping reservation"
// @Failure      503  {object}  map[string]any "transient conflict, retry"
// @Router       /v1/reservations [post]
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	actor, err := jwtx.Identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	res, err := h.Svc.Create(c.Request().Context(), actor, req)
	if err != nil {
		switch ressvc.Code(err) {
		case ressvc.ErrForbiddenRole:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "admins cannot hold reservations"})
		case ressvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "parking lot not found"})
		case ressvc.ErrLotInactive:
			return c.JSON(http.StatusConflict, echo.Map{"message": "parking lot is inactive"})
		case ressvc.ErrInvalidInterval:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation interval"})
		case ressvc.ErrSelfOverlap:
			return c.JSON(http.StatusConflict, echo.Map{"message": "overlaps one of your reservations in this lot"})
		case ressvc.ErrLotFull:
			return c.JSON(http.StatusConflict, echo.Map{"message": "parking lot is full"})
		case ressvc.ErrTryAgain:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "try again"})
		default:
			h.Log.Error("reservation create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "reservation created",
		"reservation": res,
	})
}

// POST /v1/reservations/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}

	actor, err := jwtx.Identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	if err := h.Svc.Cancel(c.Request().Context(), actor, id); err != nil {
		switch ressvc.Code(err) {
		case ressvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		case ressvc.ErrAlreadyTerminal:
			return c.JSON(http.StatusConflict, echo.Map{"message": "reservation is not upcoming"})
		case ressvc.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
		case ressvc.ErrTryAgain:
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"message": "try again"})
		default:
			h.Log.Error("reservation cancel", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}

// GET /v1/reservations
func (h *Controller) List(c echo.Context) error {
	actor, err := jwtx.Identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	rows, total, err := h.Svc.List(c.Request().Context(), actor, ressvc.ListFilter{
		Status: c.QueryParam("status"),
		Term:   c.QueryParam("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.Log.Error("reservation list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": total})
}

// GET /v1/reservations-summary
func (h *Controller) Summary(c echo.Context) error {
	sum, err := h.Svc.Summary(c.Request().Context())
	if err != nil {
		h.Log.Error("reservation summary", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, sum)
}

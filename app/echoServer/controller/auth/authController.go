package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/jnvillamor/smart-parking-app/model"
	authsvc "github.com/jnvillamor/smart-parking-app/service/auth"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Register a new user account with a unique email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email already registered"
// @Failure      500  {object}  map[string]any
// @Router       /v1/auth/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrEmailTaken:
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("register failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"user":    u,
		"token":   token,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any "account disabled"
// @Failure      500  {object}  map[string]any
// @Router       /v1/auth/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq

	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch authsvc.Code(err) {
		case authsvc.ErrInvalidCreds:
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		case authsvc.ErrUserDisabled:
			return echo.NewHTTPError(http.StatusForbidden, "account disabled")
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"user":    u,
		"token":   token,
	})
}

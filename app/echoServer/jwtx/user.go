package jwtx

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/jnvillamor/smart-parking-app/model"
)

// Identity reads the authenticated principal the claims middleware
// stashed on the context.
func Identity(c echo.Context) (model.User, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok || id <= 0 {
		return model.User{}, errors.New("no user in context")
	}
	role, ok := c.Get("role").(string)
	if !ok || role == "" {
		return model.User{}, errors.New("no role in context")
	}
	return model.User{ID: id, Role: role}, nil
}

func UserIDFromContext(c echo.Context) (int64, error) {
	id, ok := c.Get("user_id").(int64)
	if !ok || id <= 0 {
		return 0, errors.New("no user in context")
	}
	return id, nil
}

package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	adminctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/admin"
	authctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/auth"
	notifctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/notification"
	parkingctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/parking"
	resctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/reservation"
	userctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/user"
)

type C struct {
	Auth         *authctrl.Controller
	User         *userctrl.Controller
	Parking      *parkingctrl.Controller
	Reservation  *resctrl.Controller
	Notification *notifctrl.Controller
	Admin        *adminctrl.Controller
	JWTSecret    string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	// user_id + role extraction
	auth.Use(JWTAuth(c.JWTSecret))

	// Users
	auth.PUT("/users/:id", c.User.UpdateProfile)

	// Parking lots
	auth.GET("/parking", c.Parking.List)
	auth.GET("/parking/:id", c.Parking.Detail)

	// Reservations
	auth.POST("/reservations", c.Reservation.Create)
	auth.POST("/reservations/:id/cancel", c.Reservation.Cancel)
	auth.GET("/reservations", c.Reservation.List)

	// Notifications
	auth.GET("/notifications", c.Notification.Feed)
	auth.POST("/notifications/:id/toggle-read", c.Notification.ToggleRead)
	auth.POST("/notifications/read-all", c.Notification.MarkAllRead)
	auth.DELETE("/notifications/:id", c.Notification.Delete)

	// Admin endpoints
	adm := auth.Group("", AdminOnly())
	adm.GET("/users", c.User.List)
	adm.POST("/users/:id/toggle-active", c.User.ToggleActive)
	adm.POST("/parking", c.Parking.Create)
	adm.PUT("/parking/:id", c.Parking.Update)
	adm.DELETE("/parking/:id", c.Parking.Delete)
	adm.POST("/parking/:id/toggle-active", c.Parking.ToggleActive)
	adm.GET("/parking-summary", c.Parking.Summary)
	adm.GET("/reservations-summary", c.Reservation.Summary)
	adm.GET("/admin/dashboard", c.Admin.Dashboard)
}

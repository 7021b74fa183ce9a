// Package main smart parking API.
//
// @title           Smart Parking API
// @version         1.0
// @description     Parking lot reservations with reminders and expiry notifications.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/jnvillamor/smart-parking-app/app/echoServer"
	adminctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/admin"
	authctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/auth"
	notifctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/notification"
	parkingctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/parking"
	resctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/reservation"
	userctrl "github.com/jnvillamor/smart-parking-app/app/echoServer/controller/user"
	"github.com/jnvillamor/smart-parking-app/app/echoServer/validation"
	"github.com/jnvillamor/smart-parking-app/config"
	adminrepo "github.com/jnvillamor/smart-parking-app/repository/admin"
	notifrepo "github.com/jnvillamor/smart-parking-app/repository/notification"
	parkingrepo "github.com/jnvillamor/smart-parking-app/repository/parking"
	resrepo "github.com/jnvillamor/smart-parking-app/repository/reservation"
	userrepo "github.com/jnvillamor/smart-parking-app/repository/user"
	"github.com/jnvillamor/smart-parking-app/scheduler"
	adminsvc "github.com/jnvillamor/smart-parking-app/service/admin"
	authsvc "github.com/jnvillamor/smart-parking-app/service/auth"
	notifsvc "github.com/jnvillamor/smart-parking-app/service/notification"
	parkingsvc "github.com/jnvillamor/smart-parking-app/service/parking"
	ressvc "github.com/jnvillamor/smart-parking-app/service/reservation"
	usersvc "github.com/jnvillamor/smart-parking-app/service/user"
	"github.com/jnvillamor/smart-parking-app/util/database"
)

func main() {

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	ur := userrepo.New(db)
	pr := parkingrepo.New(db)
	rr := resrepo.New(db)
	nr := notifrepo.New(db)
	dr := adminrepo.New(db)

	// reminder scheduler; jobs are rebuilt from the DB on startup
	sched := scheduler.New(nr, log)
	if err := sched.Reconcile(ctx, rr, time.Now().UTC()); err != nil {
		log.Error("scheduler reconcile failed", "err", err)
		os.Exit(1)
	}
	go sched.Run(ctx, cfg.SchedulerInterval)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	us := usersvc.New(ur)
	ps := parkingsvc.New(pr)
	rs := ressvc.New(db, rr, pr, nr, sched)
	ns := notifsvc.New(nr)
	ds := adminsvc.New(dr)

	if err := as.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Error("admin seed failed", "err", err)
		os.Exit(1)
	}

	// expiry sweep backstops the scheduler's end-of-reservation notice
	sweeper := ressvc.NewSweeper(rr, log)
	go sweeper.Run(ctx, cfg.SweepInterval)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}
	parkingC := &parkingctrl.Controller{Svc: ps, V: v, Log: log}
	resC := &resctrl.Controller{Svc: rs, V: v, Log: log}
	notifC := &notifctrl.Controller{Svc: ns, Log: log}
	adminC := &adminctrl.Controller{Svc: ds, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:         authC,
		User:         userC,
		Parking:      parkingC,
		Reservation:  resC,
		Notification: notifC,
		Admin:        adminC,

		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			log.Info("server stopped", "err", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}

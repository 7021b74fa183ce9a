package config

import "time"

type App struct {
	Port          string `env:"APP_PORT" default:"8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	JWTSecret     string `env:"JWT_SECRET,required"`
	AdminEmail    string `env:"ADMIN_EMAIL" default:"admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" default:"admin_password"`
	Env           string `env:"APP_ENV" default:"dev"`

	// Background loop intervals.
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" default:"1m"`
	SchedulerInterval time.Duration `env:"SCHEDULER_INTERVAL" default:"15s"`
}

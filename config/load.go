package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func Load() App {
	// .env is optional; deployments set real env vars.
	_ = godotenv.Load()

	cfg := App{
		Port:              getenv("APP_PORT", "8080"),
		DatabaseURL:       must("DATABASE_URL"),
		JWTSecret:         getenv("JWT_SECRET", "local_dev_secret"),
		AdminEmail:        getenv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:     getenv("ADMIN_PASSWORD", "admin_password"),
		Env:               getenv("APP_ENV", "dev"),
		SweepInterval:     getdur("SWEEP_INTERVAL", time.Minute),
		SchedulerInterval: getdur("SCHEDULER_INTERVAL", 15*time.Second),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", k, "value", v)
		return def
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}

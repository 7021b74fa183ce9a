package admin

import (
	"context"
	"database/sql"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
	"github.com/jnvillamor/smart-parking-app/util/timerange"
)

type Repo interface {
	DashboardSummary(ctx context.Context, now time.Time) (*model.DashboardSummary, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) DashboardSummary(ctx context.Context, now time.Time) (*model.DashboardSummary, error) {
	dayStart, dayEnd := timerange.Today(now)
	monthStart, monthEnd := timerange.Month(now)

	s := &model.DashboardSummary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM users WHERE is_active AND role = 'user'),
			(SELECT count(*) FROM parking_lots WHERE is_active),
			(SELECT count(*) FROM reservations
				WHERE NOT is_cancelled AND start_time >= $3 AND end_time < $4),
			(SELECT COALESCE(sum(total_cost), 0) FROM reservations
				WHERE NOT is_cancelled AND created_at >= $3 AND created_at < $4),
			(SELECT count(*) FROM users
				WHERE is_active AND role = 'user' AND created_at >= $1 AND created_at < $2),
			(SELECT count(*) FROM parking_lots
				WHERE is_active AND created_at >= $1 AND created_at < $2),
			(SELECT count(*) FROM reservations
				WHERE NOT is_cancelled AND created_at >= $1 AND created_at < $2),
			(SELECT COALESCE(sum(total_cost), 0) FROM reservations
				WHERE NOT is_cancelled AND created_at >= $1 AND created_at < $2)`,
		dayStart, dayEnd, monthStart, monthEnd,
	).Scan(&s.TotalUsers, &s.TotalActiveParking, &s.TotalReservations, &s.TotalRevenue,
		&s.NewUsersToday, &s.NewParkingLotsToday, &s.NewReservationsToday, &s.NewRevenueToday)
	if err != nil {
		return nil, err
	}
	return s, nil
}

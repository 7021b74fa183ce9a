package reservation

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
)

type Repo interface {
	// Admission path; runs on the caller's transaction while the lot
	// row lock is held.
	Insert(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	HasUserOverlap(ctx context.Context, tx *sql.Tx, userID, lotID int64, start, end time.Time) (bool, error)

	// Cancellation path.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error)
	MarkCancelled(ctx context.Context, tx *sql.Tx, id int64) error

	// Expiry sweep. ExpireAndNotify owns its transaction: it flips
	// notified and inserts the notification atomically, and reports
	// whether this call claimed the row.
	ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
	ExpireAndNotify(ctx context.Context, id, userID int64, message string) (bool, error)

	// Scheduler reconciliation after a restart.
	ListPendingReminders(ctx context.Context, now time.Time) ([]model.Reservation, error)

	List(ctx context.Context, f ListFilter, now time.Time) ([]model.Reservation, int64, error)
	Summary(ctx context.Context, now time.Time) (*model.ReservationSummary, error)
}

// ListFilter selects reservations by owner, computed status
// ("active", "upcoming", "completed", "cancelled") and a free-text
// term over reservation id, user name and lot name.
type ListFilter struct {
	UserID *int64
	Status string
	Term   string
	Limit  int
	Offset int
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const resCols = `r.id, r.user_id, r.parking_id, r.start_time, r.end_time, r.duration_hours,
	r.total_cost, r.is_cancelled, r.notified, r.created_at, r.updated_at`

func scanReservation(row interface{ Scan(...any) error }, res *model.Reservation, extra ...*string) error {
	dest := []any{&res.ID, &res.UserID, &res.ParkingID, &res.StartTime, &res.EndTime,
		&res.DurationHours, &res.TotalCost, &res.IsCancelled, &res.Notified,
		&res.CreatedAt, &res.UpdatedAt}
	for _, e := range extra {
		dest = append(dest, e)
	}
	return row.Scan(dest...)
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	return tx.QueryRowContext(ctx, `
		INSERT INTO reservations(user_id, parking_id, start_time, end_time, duration_hours, total_cost)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		res.UserID, res.ParkingID, res.StartTime, res.EndTime, res.DurationHours, res.TotalCost,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

// HasUserOverlap uses half-open interval semantics: [s1,e1) and
// [s2,e2) overlap iff s1 < e2 AND s2 < e1.
func (r *repo) HasUserOverlap(ctx context.Context, tx *sql.Tx, userID, lotID int64, start, end time.Time) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = $1 AND parking_id = $2 AND NOT is_cancelled
			  AND start_time < $4 AND $3 < end_time
		)`, userID, lotID, start, end,
	).Scan(&exists)
	return exists, err
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error) {
	res := &model.Reservation{}
	err := scanReservation(tx.QueryRowContext(ctx, `
		SELECT `+resCols+`, p.name
		FROM reservations r
		JOIN parking_lots p ON p.id = r.parking_id
		WHERE r.id = $1
		FOR UPDATE OF r`, id), res, &res.LotName)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// MarkCancelled also sets notified so the expiry sweep skips the row.
func (r *repo) MarkCancelled(ctx context.Context, tx *sql.Tx, id int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE reservations
		SET is_cancelled = TRUE, notified = TRUE, updated_at = now()
		WHERE id = $1`, id)
	return err
}

func (r *repo) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+resCols+`, p.name
		FROM reservations r
		JOIN parking_lots p ON p.id = r.parking_id
		WHERE r.end_time <= $1 AND NOT r.is_cancelled AND NOT r.notified
		ORDER BY r.end_time
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ExpireAndNotify claims the row with a guarded update, so a sweep that
// re-runs after a partial failure cannot notify twice.
func (r *repo) ExpireAndNotify(ctx context.Context, id, userID int64, message string) (claimed bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE reservations
		SET notified = TRUE, updated_at = now()
		WHERE id = $1 AND NOT notified AND NOT is_cancelled`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, tx.Commit()
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO notifications(user_id, message) VALUES ($1,$2)`, userID, message); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

func (r *repo) ListPendingReminders(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+resCols+`, p.name
		FROM reservations r
		JOIN parking_lots p ON p.id = r.parking_id
		WHERE r.end_time > $1 AND NOT r.is_cancelled AND NOT r.notified
		ORDER BY r.start_time`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Reservation, error) {
	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res, &res.LotName); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// List composes only the predicates actually requested.
func (r *repo) List(ctx context.Context, f ListFilter, now time.Time) ([]model.Reservation, int64, error) {
	var conds []string
	var args []any
	arg := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if f.UserID != nil {
		conds = append(conds, fmt.Sprintf("r.user_id = $%d", arg(*f.UserID)))
	}
	switch f.Status {
	case "cancelled":
		conds = append(conds, "r.is_cancelled")
	case "active":
		n := arg(now)
		conds = append(conds, fmt.Sprintf("NOT r.is_cancelled AND r.start_time <= $%d AND $%d <= r.end_time", n, n))
	case "upcoming":
		conds = append(conds, fmt.Sprintf("NOT r.is_cancelled AND r.start_time > $%d", arg(now)))
	case "completed":
		conds = append(conds, fmt.Sprintf("NOT r.is_cancelled AND r.end_time < $%d", arg(now)))
	}
	if f.Term != "" {
		n := arg("%" + f.Term + "%")
		conds = append(conds, fmt.Sprintf(
			"(r.id::TEXT ILIKE $%d OR u.first_name ILIKE $%d OR u.last_name ILIKE $%d OR p.name ILIKE $%d)",
			n, n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	const from = `
		FROM reservations r
		JOIN users u ON u.id = r.user_id
		JOIN parking_lots p ON p.id = r.parking_id `

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`
		SELECT %s, p.name, u.first_name || ' ' || u.last_name %s %s
		ORDER BY r.start_time DESC
		LIMIT $%d OFFSET $%d`, resCols, from, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		var res model.Reservation
		if err := scanReservation(rows, &res, &res.LotName, &res.UserName); err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	return out, total, rows.Err()
}

func (r *repo) Summary(ctx context.Context, now time.Time) (*model.ReservationSummary, error) {
	s := &model.ReservationSummary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE NOT is_cancelled AND start_time > $1),
			count(*) FILTER (WHERE NOT is_cancelled AND start_time <= $1 AND $1 <= end_time),
			count(*) FILTER (WHERE NOT is_cancelled AND end_time < $1),
			count(*) FILTER (WHERE is_cancelled)
		FROM reservations`, now,
	).Scan(&s.Total, &s.Upcoming, &s.Active, &s.Completed, &s.Cancelled)
	if err != nil {
		return nil, err
	}
	return s, nil
}

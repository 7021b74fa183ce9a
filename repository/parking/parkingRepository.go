package parking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
)

type Repo interface {
	Create(ctx context.Context, lot *model.ParkingLot) error
	ByID(ctx context.Context, id int64, now time.Time) (*model.ParkingLot, error)
	Update(ctx context.Context, lot *model.ParkingLot) error
	Delete(ctx context.Context, id int64) (bool, error)
	ToggleActive(ctx context.Context, id int64) (*model.ParkingLot, error)
	List(ctx context.Context, f ListFilter, now time.Time) ([]model.ParkingLot, int64, error)
	Summary(ctx context.Context, now time.Time) (*model.ParkingSummary, error)

	// Admission helpers; both run on the caller's transaction while the
	// lot row lock is held.
	LockForAdmission(ctx context.Context, tx *sql.Tx, id int64) (*model.ParkingLot, error)
	CountOccupied(ctx context.Context, tx *sql.Tx, id int64, now time.Time) (int, error)
}

// ListFilter selects lots by name substring and active state
// ("active", "inactive" or "all").
type ListFilter struct {
	Name   string
	Status string
	Limit  int
	Offset int
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

// availableSlots counts down from total_slots with the same occupancy
// rule as admission: non-cancelled and end_time > now.
func lotCols(nowIdx int) string {
	return fmt.Sprintf(`p.id, p.name, p.location, p.total_slots, p.rate, p.is_active, p.created_at, p.updated_at,
	p.total_slots - (
		SELECT count(*) FROM reservations r
		WHERE r.parking_id = p.id AND NOT r.is_cancelled AND r.end_time > $%d
	) AS available_slots`, nowIdx)
}

func scanLot(row interface{ Scan(...any) error }, lot *model.ParkingLot) error {
	return row.Scan(&lot.ID, &lot.Name, &lot.Location, &lot.TotalSlots, &lot.Rate,
		&lot.IsActive, &lot.CreatedAt, &lot.UpdatedAt, &lot.AvailableSlots)
}

func (r *repo) Create(ctx context.Context, lot *model.ParkingLot) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO parking_lots(name, location, total_slots, rate)
		VALUES ($1,$2,$3,$4)
		RETURNING id, is_active, created_at, updated_at`,
		lot.Name, lot.Location, lot.TotalSlots, lot.Rate,
	).Scan(&lot.ID, &lot.IsActive, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return err
	}
	lot.AvailableSlots = lot.TotalSlots
	return nil
}

func (r *repo) ByID(ctx context.Context, id int64, now time.Time) (*model.ParkingLot, error) {
	lot := &model.ParkingLot{}
	err := scanLot(r.db.QueryRowContext(ctx, `
		SELECT `+lotCols(1)+`
		FROM parking_lots p
		WHERE p.id = $2`, now, id), lot)
	if err != nil {
		return nil, err
	}
	return lot, nil
}

func (r *repo) Update(ctx context.Context, lot *model.ParkingLot) error {
	return r.db.QueryRowContext(ctx, `
		UPDATE parking_lots
		SET name = $2, location = $3, total_slots = $4, rate = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		lot.ID, lot.Name, lot.Location, lot.TotalSlots, lot.Rate,
	).Scan(&lot.UpdatedAt)
}

func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM parking_lots WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *repo) ToggleActive(ctx context.Context, id int64) (*model.ParkingLot, error) {
	lot := &model.ParkingLot{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE parking_lots
		SET is_active = NOT is_active, updated_at = now()
		WHERE id = $1
		RETURNING id, name, location, total_slots, rate, is_active, created_at, updated_at`,
		id,
	).Scan(&lot.ID, &lot.Name, &lot.Location, &lot.TotalSlots, &lot.Rate,
		&lot.IsActive, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// List composes only the predicates actually requested.
func (r *repo) List(ctx context.Context, f ListFilter, now time.Time) ([]model.ParkingLot, int64, error) {
	var conds []string
	var args []any
	switch f.Status {
	case "active":
		conds = append(conds, "p.is_active")
	case "inactive":
		conds = append(conds, "NOT p.is_active")
	}
	if f.Name != "" {
		args = append(args, "%"+f.Name+"%")
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM parking_lots p `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	nowIdx := len(args) + 1
	args = append(args, now, f.Limit, f.Offset)
	q := fmt.Sprintf(`
		SELECT %s
		FROM parking_lots p %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, lotCols(nowIdx), where, nowIdx+1, nowIdx+2)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.ParkingLot
	for rows.Next() {
		var lot model.ParkingLot
		if err := scanLot(rows, &lot); err != nil {
			return nil, 0, err
		}
		out = append(out, lot)
	}
	return out, total, rows.Err()
}

func (r *repo) Summary(ctx context.Context, now time.Time) (*model.ParkingSummary, error) {
	s := &model.ParkingSummary{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT count(*) FROM parking_lots),
			(SELECT count(*) FROM parking_lots WHERE is_active),
			(SELECT COALESCE(sum(total_slots), 0) FROM parking_lots),
			(SELECT count(*) FROM reservations WHERE NOT is_cancelled AND end_time > $1)`,
		now,
	).Scan(&s.TotalParkingLots, &s.TotalActiveParkingLots, &s.TotalAvailableSlots, &s.TotalReservedSlots)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LockForAdmission takes an exclusive lock on the lot row. Concurrent
// admissions against the same lot serialize here.
func (r *repo) LockForAdmission(ctx context.Context, tx *sql.Tx, id int64) (*model.ParkingLot, error) {
	lot := &model.ParkingLot{}
	err := tx.QueryRowContext(ctx, `
		SELECT id, name, location, total_slots, rate, is_active, created_at, updated_at
		FROM parking_lots
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&lot.ID, &lot.Name, &lot.Location, &lot.TotalSlots, &lot.Rate,
		&lot.IsActive, &lot.CreatedAt, &lot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lot, nil
}

// CountOccupied counts reservations that still hold a slot at now or
// later. A future reservation counts against capacity even before it
// starts.
func (r *repo) CountOccupied(ctx context.Context, tx *sql.Tx, id int64, now time.Time) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT count(*)
		FROM reservations
		WHERE parking_id = $1 AND NOT is_cancelled AND end_time > $2`,
		id, now,
	).Scan(&n)
	return n, err
}

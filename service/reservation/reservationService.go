package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
	parkingrepo "github.com/jnvillamor/smart-parking-app/repository/parking"
	resrepo "github.com/jnvillamor/smart-parking-app/repository/reservation"
)

type ListFilter = resrepo.ListFilter

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	HasUserOverlap(ctx context.Context, tx *sql.Tx, userID, lotID int64, start, end time.Time) (bool, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*model.Reservation, error)
	MarkCancelled(ctx context.Context, tx *sql.Tx, id int64) error
	ListPendingReminders(ctx context.Context, now time.Time) ([]model.Reservation, error)
	List(ctx context.Context, f ListFilter, now time.Time) ([]model.Reservation, int64, error)
	Summary(ctx context.Context, now time.Time) (*model.ReservationSummary, error)
}

type LotRepo interface {
	LockForAdmission(ctx context.Context, tx *sql.Tx, id int64) (*model.ParkingLot, error)
	CountOccupied(ctx context.Context, tx *sql.Tx, id int64, now time.Time) (int, error)
}

type NotificationWriter interface {
	CreateTx(ctx context.Context, tx *sql.Tx, userID int64, message string) error
}

// JobScheduler registers and removes reminder jobs tied to a
// reservation's lifetime.
type JobScheduler interface {
	Schedule(res model.Reservation, now time.Time)
	Remove(reservationID int64)
}

type Service interface {
	// Create admits a reservation request against the lot's capacity
	// and registers reminder jobs on success.
	Create(ctx context.Context, requester model.User, req model.CreateReservationReq) (*model.Reservation, error)

	// Cancel marks an upcoming reservation cancelled, removes its
	// pending reminder jobs and notifies the owner.
	Cancel(ctx context.Context, actor model.User, reservationID int64) error

	List(ctx context.Context, actor model.User, f ListFilter) ([]model.Reservation, int64, error)
	Summary(ctx context.Context) (*model.ReservationSummary, error)
}

var _ Repo = resrepo.Repo(nil)
var _ LotRepo = parkingrepo.Repo(nil)

type service struct {
	db    *sql.DB
	r     Repo
	lots  LotRepo
	notif NotificationWriter
	sched JobScheduler
	now   func() time.Time
}

func New(db *sql.DB, r Repo, lots LotRepo, notif NotificationWriter, sched JobScheduler) Service {
	return &service{db: db, r: r, lots: lots, notif: notif, sched: sched, now: func() time.Time { return time.Now().UTC() }}
}

// Create runs all admission checks inside one transaction that holds an
// exclusive lock on the lot row, so concurrent attempts against the
// same lot are totally ordered and never read a stale occupancy count.
func (s *service) Create(ctx context.Context, requester model.User, req model.CreateReservationReq) (res *model.Reservation, err error) {
	// Admins cannot hold reservations; rejected before touching the lot.
	if requester.IsAdmin() {
		return nil, makeErr(ErrForbiddenRole)
	}

	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapTransient(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lot, err := s.lots.LockForAdmission(ctx, tx, req.ParkingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, mapTransient(err)
	}

	if err = validateRequest(now, req, lot); err != nil {
		return nil, err
	}

	overlap, err := s.r.HasUserOverlap(ctx, tx, requester.ID, lot.ID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, mapTransient(err)
	}
	occupied, err := s.lots.CountOccupied(ctx, tx, lot.ID, now)
	if err != nil {
		return nil, mapTransient(err)
	}
	if err = admissionDecision(overlap, occupied, lot.TotalSlots); err != nil {
		return nil, err
	}

	hours, cost := computeCost(req.StartTime, req.EndTime, lot.Rate)
	res = &model.Reservation{
		UserID:        requester.ID,
		ParkingID:     lot.ID,
		StartTime:     req.StartTime.UTC(),
		EndTime:       req.EndTime.UTC(),
		DurationHours: hours,
		TotalCost:     cost,
		LotName:       lot.Name,
	}
	if err = s.r.Insert(ctx, tx, res); err != nil {
		return nil, mapTransient(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, mapTransient(err)
	}

	// Reminder jobs only exist for committed reservations.
	s.sched.Schedule(*res, now)
	return res, nil
}

// validateRequest covers the checks that need only the locked lot and
// the request itself, in rejection-priority order.
func validateRequest(now time.Time, req model.CreateReservationReq, lot *model.ParkingLot) error {
	if !lot.IsActive {
		return makeErr(ErrLotInactive)
	}
	if !req.StartTime.Before(req.EndTime) || req.StartTime.Before(now) {
		return makeErr(ErrInvalidInterval)
	}
	return nil
}

// admissionDecision orders the occupancy rejections: a self-overlap is
// reported before a full lot.
func admissionDecision(overlap bool, occupied, totalSlots int) error {
	if overlap {
		return makeErr(ErrSelfOverlap)
	}
	if occupied >= totalSlots {
		return makeErr(ErrLotFull)
	}
	return nil
}

// computeCost snapshots the lot's rate at creation time; the stored
// cost never changes if the rate is updated later.
func computeCost(start, end time.Time, rate float64) (hours, cost float64) {
	hours = end.Sub(start).Seconds() / 3600.0
	cost = math.Round(hours*rate*100) / 100
	return hours, cost
}

// cancelDecision is the pure gate for Cancel: only the owner or an
// admin may cancel, and only while the reservation is strictly
// upcoming. is_cancelled is terminal.
func cancelDecision(res *model.Reservation, actor model.User, now time.Time) error {
	if res.IsCancelled || res.Status(now) != model.StatusUpcoming {
		return makeErr(ErrAlreadyTerminal)
	}
	if actor.ID != res.UserID && !actor.IsAdmin() {
		return makeErr(ErrForbidden)
	}
	return nil
}

// Cancel keeps the flag flips, the notification insert and the commit
// in one transaction; reminder jobs are removed only after it commits.
func (s *service) Cancel(ctx context.Context, actor model.User, reservationID int64) (err error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapTransient(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := s.r.GetForUpdate(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return mapTransient(err)
	}

	if err = cancelDecision(res, actor, now); err != nil {
		return err
	}

	if err = s.r.MarkCancelled(ctx, tx, res.ID); err != nil {
		return mapTransient(err)
	}
	msg := fmt.Sprintf("Your reservation for %s has been cancelled.", res.LotName)
	if err = s.notif.CreateTx(ctx, tx, res.UserID, msg); err != nil {
		return mapTransient(err)
	}
	if err = tx.Commit(); err != nil {
		return mapTransient(err)
	}

	s.sched.Remove(res.ID)
	return nil
}

// List scopes non-admin callers to their own reservations.
func (s *service) List(ctx context.Context, actor model.User, f ListFilter) ([]model.Reservation, int64, error) {
	if !actor.IsAdmin() {
		f.UserID = &actor.ID
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
	return s.r.List(ctx, f, s.now())
}

func (s *service) Summary(ctx context.Context) (*model.ReservationSummary, error) {
	return s.r.Summary(ctx, s.now())
}

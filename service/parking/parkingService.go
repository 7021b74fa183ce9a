package parking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jnvillamor/smart-parking-app/model"
	parkingrepo "github.com/jnvillamor/smart-parking-app/repository/parking"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrNameTaken ErrCode = "NAME_TAKEN"
	ErrBadInput  ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type ListFilter = parkingrepo.ListFilter

type Repo interface {
	Create(ctx context.Context, lot *model.ParkingLot) error
	ByID(ctx context.Context, id int64, now time.Time) (*model.ParkingLot, error)
	Update(ctx context.Context, lot *model.ParkingLot) error
	Delete(ctx context.Context, id int64) (bool, error)
	ToggleActive(ctx context.Context, id int64) (*model.ParkingLot, error)
	List(ctx context.Context, f ListFilter, now time.Time) ([]model.ParkingLot, int64, error)
	Summary(ctx context.Context, now time.Time) (*model.ParkingSummary, error)
}

type Service interface {
	Create(ctx context.Context, req model.ParkingLotReq) (*model.ParkingLot, error)
	Get(ctx context.Context, id int64) (*model.ParkingLot, error)
	Update(ctx context.Context, id int64, req model.ParkingLotReq) (*model.ParkingLot, error)
	Delete(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (*model.ParkingLot, error)
	List(ctx context.Context, f ListFilter) ([]model.ParkingLot, int64, error)
	Summary(ctx context.Context) (*model.ParkingSummary, error)
}

var _ Repo = parkingrepo.Repo(nil)

type service struct {
	r   Repo
	now func() time.Time
}

func New(r Repo) Service {
	return &service{r: r, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Create(ctx context.Context, req model.ParkingLotReq) (*model.ParkingLot, error) {
	if req.TotalSlots <= 1 || req.Rate < 0 {
		return nil, makeErr(ErrBadInput)
	}
	lot := &model.ParkingLot{
		Name:       req.Name,
		Location:   req.Location,
		TotalSlots: req.TotalSlots,
		Rate:       req.Rate,
	}
	if err := s.r.Create(ctx, lot); err != nil {
		return nil, mapDuplicateName(err)
	}
	return lot, nil
}

func mapDuplicateName(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return makeErr(ErrNameTaken)
	}
	return err
}

func (s *service) Get(ctx context.Context, id int64) (*model.ParkingLot, error) {
	lot, err := s.r.ByID(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return lot, nil
}

func (s *service) Update(ctx context.Context, id int64, req model.ParkingLotReq) (*model.ParkingLot, error) {
	if req.TotalSlots <= 1 || req.Rate < 0 {
		return nil, makeErr(ErrBadInput)
	}
	lot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	lot.Name = req.Name
	lot.Location = req.Location
	lot.TotalSlots = req.TotalSlots
	// Rate changes never touch existing reservations; their cost was
	// snapshotted at creation.
	lot.Rate = req.Rate

	if err := s.r.Update(ctx, lot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, mapDuplicateName(err)
	}
	return lot, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.r.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) ToggleActive(ctx context.Context, id int64) (*model.ParkingLot, error) {
	lot, err := s.r.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return lot, nil
}

func (s *service) List(ctx context.Context, f ListFilter) ([]model.ParkingLot, int64, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	return s.r.List(ctx, f, s.now())
}

func (s *service) Summary(ctx context.Context) (*model.ParkingSummary, error) {
	return s.r.Summary(ctx, s.now())
}

package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jnvillamor/smart-parking-app/model"
	userrepo "github.com/jnvillamor/smart-parking-app/repository/user"
)

type ErrCode string

const (
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrForbidden  ErrCode = "FORBIDDEN"
	ErrEmailTaken ErrCode = "EMAIL_TAKEN"
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

type Repo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, email, firstName, lastName string) (*model.User, error)
	ToggleActive(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, term string, limit, offset int) ([]model.User, int64, error)
}

type Service interface {
	// UpdateProfile lets a user edit their own email and name; nobody
	// else's, admins included.
	UpdateProfile(ctx context.Context, actorID, userID int64, req model.UpdateProfileReq) (*model.User, error)

	// ToggleActive flips an account's active flag. Deactivated users
	// keep their data but cannot log in.
	ToggleActive(ctx context.Context, id int64) (*model.User, error)

	List(ctx context.Context, term string, limit, offset int) ([]model.User, int64, error)
}

var _ Repo = userrepo.Repo(nil)

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) UpdateProfile(ctx context.Context, actorID, userID int64, req model.UpdateProfileReq) (*model.User, error) {
	u, err := s.r.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	if u.ID != actorID {
		return nil, makeErr(ErrForbidden)
	}

	updated, err := s.r.UpdateProfile(ctx, userID, strings.ToLower(strings.TrimSpace(req.Email)), req.FirstName, req.LastName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrEmailTaken)
		}
		return nil, err
	}
	return updated, nil
}

func (s *service) ToggleActive(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.r.ToggleActive(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, term string, limit, offset int) ([]model.User, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.r.List(ctx, term, limit, offset)
}

package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jnvillamor/smart-parking-app/model"
	userrepo "github.com/jnvillamor/smart-parking-app/repository/user"
	"github.com/jnvillamor/smart-parking-app/util/hash"
	jwtutil "github.com/jnvillamor/smart-parking-app/util/jwt"
)

// errors used by controllers

type ErrCode string

const (
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
	ErrUserDisabled ErrCode = "USER_DISABLED"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

const tokenTTLHours = 24

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	SetLastLogin(ctx context.Context, id int64, t time.Time) error
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)

	// EnsureAdmin seeds the configured admin account at startup.
	EnsureAdmin(ctx context.Context, email, password string) error
}

var _ Repo = userrepo.Repo(nil)

type service struct {
	r      Repo
	secret string
	now    func() time.Time
}

func New(r Repo, secret string) Service {
	return &service{r: r, secret: secret, now: func() time.Time { return time.Now().UTC() }}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}

	if err := s.r.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, "", makeErr(ErrEmailTaken)
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.r.ByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidCreds)
		}
		return nil, "", err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}
	// Deactivated accounts are rejected here, before any token exists.
	if !u.IsActive {
		return nil, "", makeErr(ErrUserDisabled)
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	_ = s.r.SetLastLogin(ctx, u.ID, s.now())
	return u, token, nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.r.ByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hashed, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	u := &model.User{
		Email:        strings.ToLower(email),
		FirstName:    "Admin",
		LastName:     "User",
		PasswordHash: hashed,
		Role:         model.RoleAdmin,
	}
	if err := s.r.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			// Another instance seeded it first.
			return nil
		}
		return err
	}
	return nil
}

package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jnvillamor/smart-parking-app/model"
	"github.com/jnvillamor/smart-parking-app/util/hash"
)

type mockUserRepo struct {
	createFn       func(ctx context.Context, u *model.User) error
	byEmailFn      func(ctx context.Context, email string) (*model.User, error)
	setLastLoginFn func(ctx context.Context, id int64, t time.Time) error
}

func (m *mockUserRepo) Create(ctx context.Context, u *model.User) error {
	return m.createFn(ctx, u)
}

func (m *mockUserRepo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}

func (m *mockUserRepo) SetLastLogin(ctx context.Context, id int64, t time.Time) error {
	if m.setLastLoginFn != nil {
		return m.setLastLoginFn(ctx, id, t)
	}
	return nil
}

const testSecret = "test-secret"

func TestRegisterHashesPasswordAndLowercasesEmail(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = 5
			created = u
			return nil
		},
	}

	svc := New(repo, testSecret)
	u, token, err := svc.Register(context.Background(), model.RegisterReq{
		Email:     "  Jane.Doe@Example.COM ",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "hunter22",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(5), u.ID)
	require.Equal(t, "jane.doe@example.com", created.Email)
	require.Equal(t, model.RoleUser, created.Role)
	require.NotEqual(t, "hunter22", created.PasswordHash)
	require.True(t, hash.Check(created.PasswordHash, "hunter22"))
}

func TestLogin(t *testing.T) {
	hashed, err := hash.HashPassword("hunter22")
	require.NoError(t, err)

	stored := &model.User{ID: 5, Email: "jane@example.com", PasswordHash: hashed, Role: model.RoleUser, IsActive: true}
	repo := &mockUserRepo{
		byEmailFn: func(_ context.Context, email string) (*model.User, error) {
			if email == stored.Email {
				u := *stored
				return &u, nil
			}
			return nil, sql.ErrNoRows
		},
	}
	svc := New(repo, testSecret)

	u, token, err := svc.Login(context.Background(), model.LoginReq{Email: "jane@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(5), u.ID)

	// Wrong password and unknown email come back identical.
	_, _, err = svc.Login(context.Background(), model.LoginReq{Email: "jane@example.com", Password: "wrong"})
	require.Equal(t, ErrInvalidCreds, Code(err))
	_, _, err = svc.Login(context.Background(), model.LoginReq{Email: "nobody@example.com", Password: "hunter22"})
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	hashed, err := hash.HashPassword("hunter22")
	require.NoError(t, err)

	repo := &mockUserRepo{
		byEmailFn: func(context.Context, string) (*model.User, error) {
			return &model.User{ID: 5, PasswordHash: hashed, IsActive: false}, nil
		},
	}
	_, _, err = New(repo, testSecret).Login(context.Background(), model.LoginReq{Email: "jane@example.com", Password: "hunter22"})
	require.Equal(t, ErrUserDisabled, Code(err))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	calls := 0
	repo := &mockUserRepo{
		byEmailFn: func(context.Context, string) (*model.User, error) {
			return &model.User{ID: 1, Role: model.RoleAdmin}, nil
		},
		createFn: func(context.Context, *model.User) error {
			calls++
			return nil
		},
	}
	require.NoError(t, New(repo, testSecret).EnsureAdmin(context.Background(), "admin@example.com", "pw"))
	require.Zero(t, calls)
}

func TestEnsureAdminSeedsMissingAccount(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		byEmailFn: func(context.Context, string) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
		createFn: func(_ context.Context, u *model.User) error {
			created = u
			return nil
		},
	}
	require.NoError(t, New(repo, testSecret).EnsureAdmin(context.Background(), "Admin@Example.com", "pw"))
	require.NotNil(t, created)
	require.Equal(t, "admin@example.com", created.Email)
	require.Equal(t, model.RoleAdmin, created.Role)
	require.True(t, hash.Check(created.PasswordHash, "pw"))
}

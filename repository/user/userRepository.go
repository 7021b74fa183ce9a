package user

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jnvillamor/smart-parking-app/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, email, firstName, lastName string) (*model.User, error)
	SetLastLogin(ctx context.Context, id int64, t time.Time) error
	ToggleActive(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, term string, limit, offset int) ([]model.User, int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const userCols = `id, email, first_name, last_name, password_hash, role, is_active, last_login, created_at, updated_at`

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(email, first_name, last_name, password_hash, role, last_login)
		VALUES ($1,$2,$3,$4,$5,now())
		RETURNING id, is_active, created_at, updated_at`,
		u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE lower(email) = lower($1)`, email))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userCols+`
		FROM users
		WHERE id = $1`, id))
}

func (r *repo) scanOne(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) UpdateProfile(ctx context.Context, id int64, email, firstName, lastName string) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userCols, id, email, firstName, lastName))
}

func (r *repo) ToggleActive(ctx context.Context, id int64) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET is_active = NOT is_active, updated_at = now()
		WHERE id = $1
		RETURNING `+userCols, id))
}

func (r *repo) SetLastLogin(ctx context.Context, id int64, t time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, t)
	return err
}

// List returns non-admin users, newest first. The term predicate is
// only added when a term is given.
func (r *repo) List(ctx context.Context, term string, limit, offset int) ([]model.User, int64, error) {
	where := `WHERE role = 'user'`
	args := []any{}
	if term != "" {
		args = append(args, "%"+term+"%")
		where += fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)`,
			len(args), len(args), len(args))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	q := fmt.Sprintf(`
		SELECT `+userCols+`
		FROM users %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
			&u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

package notification

import (
	"context"
	"database/sql"

	"github.com/jnvillamor/smart-parking-app/model"
)

type Repo interface {
	Create(ctx context.Context, userID int64, message string) error
	CreateTx(ctx context.Context, tx *sql.Tx, userID int64, message string) error
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	ToggleRead(ctx context.Context, id, userID int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const insertSQL = `INSERT INTO notifications(user_id, message) VALUES ($1,$2)`

func (r *repo) Create(ctx context.Context, userID int64, message string) error {
	_, err := r.db.ExecContext(ctx, insertSQL, userID, message)
	return err
}

func (r *repo) CreateTx(ctx context.Context, tx *sql.Tx, userID int64, message string) error {
	_, err := tx.ExecContext(ctx, insertSQL, userID, message)
	return err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *repo) ToggleRead(ctx context.Context, id, userID int64) (*model.Notification, error) {
	n := &model.Notification{}
	err := r.db.QueryRowContext(ctx, `
		UPDATE notifications
		SET is_read = NOT is_read
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, message, is_read, created_at`,
		id, userID,
	).Scan(&n.ID, &n.UserID, &n.Message, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *repo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET is_read = TRUE
		WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

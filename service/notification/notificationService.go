package notification

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jnvillamor/smart-parking-app/model"
	notifrepo "github.com/jnvillamor/smart-parking-app/repository/notification"
)

type ErrCode string

const ErrNotFound ErrCode = "NOT_FOUND"

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
	ListByUser(ctx context.Context, userID int64) ([]model.Notification, error)
	ToggleRead(ctx context.Context, id, userID int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

type Service interface {
	// Feed returns the caller's notifications split into unread and read,
	// newest first within each group.
	Feed(ctx context.Context, userID int64) (*model.NotificationFeed, error)

	ToggleRead(ctx context.Context, id, userID int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
}

var _ Repo = notifrepo.Repo(nil)

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) Feed(ctx context.Context, userID int64) (*model.NotificationFeed, error) {
	all, err := s.r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := &model.NotificationFeed{
		ReadNotifications:   []model.Notification{},
		UnreadNotifications: []model.Notification{},
	}
	for _, n := range all {
		if n.IsRead {
			feed.ReadNotifications = append(feed.ReadNotifications, n)
		} else {
			feed.UnreadNotifications = append(feed.UnreadNotifications, n)
		}
	}
	feed.AllCount = len(all)
	feed.ReadCount = len(feed.ReadNotifications)
	feed.UnreadCount = len(feed.UnreadNotifications)
	return feed, nil
}

func (s *service) ToggleRead(ctx context.Context, id, userID int64) (*model.Notification, error) {
	n, err := s.r.ToggleRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (s *service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.r.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, id, userID int64) error {
	ok, err := s.r.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

package notification

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jnvillamor/smart-parking-app/model"
)

type mockNotifRepo struct {
	listByUserFn  func(ctx context.Context, userID int64) ([]model.Notification, error)
	toggleReadFn  func(ctx context.Context, id, userID int64) (*model.Notification, error)
	markAllReadFn func(ctx context.Context, userID int64) (int64, error)
	deleteFn      func(ctx context.Context, id, userID int64) (bool, error)
}

func (m *mockNotifRepo) ListByUser(ctx context.Context, userID int64) ([]model.Notification, error) {
	return m.listByUserFn(ctx, userID)
}

func (m *mockNotifRepo) ToggleRead(ctx context.Context, id, userID int64) (*model.Notification, error) {
	return m.toggleReadFn(ctx, id, userID)
}

func (m *mockNotifRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return m.markAllReadFn(ctx, userID)
}

func (m *mockNotifRepo) Delete(ctx context.Context, id, userID int64) (bool, error) {
	return m.deleteFn(ctx, id, userID)
}

func TestFeedSplitsReadAndUnread(t *testing.T) {
	now := time.Now().UTC()
	repo := &mockNotifRepo{
		listByUserFn: func(_ context.Context, userID int64) ([]model.Notification, error) {
			require.Equal(t, int64(7), userID)
			return []model.Notification{
				{ID: 3, UserID: 7, Message: "c", IsRead: false, CreatedAt: now},
				{ID: 2, UserID: 7, Message: "b", IsRead: true, CreatedAt: now.Add(-time.Hour)},
				{ID: 1, UserID: 7, Message: "a", IsRead: false, CreatedAt: now.Add(-2 * time.Hour)},
			}, nil
		},
	}

	feed, err := New(repo).Feed(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, feed.UnreadNotifications, 2)
	require.Len(t, feed.ReadNotifications, 1)
	require.Equal(t, 2, feed.UnreadCount)
	require.Equal(t, 1, feed.ReadCount)
	require.Equal(t, 3, feed.AllCount)
	require.Equal(t, int64(3), feed.UnreadNotifications[0].ID)
}

func TestFeedEmptyListsAreNotNil(t *testing.T) {
	repo := &mockNotifRepo{
		listByUserFn: func(context.Context, int64) ([]model.Notification, error) {
			return nil, nil
		},
	}
	feed, err := New(repo).Feed(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, feed.UnreadNotifications)
	require.NotNil(t, feed.ReadNotifications)
	require.Zero(t, feed.AllCount)
}

func TestToggleReadNotFound(t *testing.T) {
	repo := &mockNotifRepo{
		toggleReadFn: func(context.Context, int64, int64) (*model.Notification, error) {
			return nil, sql.ErrNoRows
		},
	}
	_, err := New(repo).ToggleRead(context.Background(), 99, 7)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestDeleteNotFound(t *testing.T) {
	repo := &mockNotifRepo{
		deleteFn: func(context.Context, int64, int64) (bool, error) {
			return false, nil
		},
	}
	err := New(repo).Delete(context.Background(), 99, 7)
	require.Equal(t, ErrNotFound, Code(err))
}

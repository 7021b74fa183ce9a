package reservation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jnvillamor/smart-parking-app/model"
)

type mockSweepRepo struct {
	listExpiredFn     func(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error)
	expireAndNotifyFn func(ctx context.Context, id, userID int64, message string) (bool, error)
}

func (m *mockSweepRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]model.Reservation, error) {
	return m.listExpiredFn(ctx, now, limit)
}

func (m *mockSweepRepo) ExpireAndNotify(ctx context.Context, id, userID int64, message string) (bool, error) {
	return m.expireAndNotifyFn(ctx, id, userID, message)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunExpirySweepNotifiesEachExpiredRow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	expired := []model.Reservation{
		{ID: 1, UserID: 10, LotName: "North Garage"},
		{ID: 2, UserID: 11, LotName: "Airport Lot"},
	}

	var messages []string
	repo := &mockSweepRepo{
		listExpiredFn: func(_ context.Context, got time.Time, limit int) ([]model.Reservation, error) {
			require.Equal(t, now, got)
			require.Equal(t, sweepBatchSize, limit)
			return expired, nil
		},
		expireAndNotifyFn: func(_ context.Context, id, userID int64, message string) (bool, error) {
			messages = append(messages, message)
			return true, nil
		},
	}

	n, err := NewSweeper(repo, discardLogger()).RunExpirySweep(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{
		"Your reservation for North Garage has expired.",
		"Your reservation for Airport Lot has expired.",
	}, messages)
}

func TestRunExpirySweepSkipsAlreadyClaimedRows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := &mockSweepRepo{
		listExpiredFn: func(context.Context, time.Time, int) ([]model.Reservation, error) {
			return []model.Reservation{{ID: 1, UserID: 10, LotName: "North Garage"}}, nil
		},
		// Another sweep got there first; the claim reports false.
		expireAndNotifyFn: func(context.Context, int64, int64, string) (bool, error) {
			return false, nil
		},
	}

	n, err := NewSweeper(repo, discardLogger()).RunExpirySweep(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestRunExpirySweepContinuesPastRowFailures(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	repo := &mockSweepRepo{
		listExpiredFn: func(context.Context, time.Time, int) ([]model.Reservation, error) {
			return []model.Reservation{
				{ID: 1, UserID: 10, LotName: "North Garage"},
				{ID: 2, UserID: 11, LotName: "Airport Lot"},
				{ID: 3, UserID: 12, LotName: "Harbor Lot"},
			}, nil
		},
		expireAndNotifyFn: func(_ context.Context, id, _ int64, _ string) (bool, error) {
			if id == 2 {
				return false, errors.New("connection reset")
			}
			return true, nil
		},
	}

	n, err := NewSweeper(repo, discardLogger()).RunExpirySweep(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestRunExpirySweepListFailure(t *testing.T) {
	repo := &mockSweepRepo{
		listExpiredFn: func(context.Context, time.Time, int) ([]model.Reservation, error) {
			return nil, errors.New("db down")
		},
	}

	n, err := NewSweeper(repo, discardLogger()).RunExpirySweep(context.Background(), time.Now())
	require.Error(t, err)
	require.Equal(t, 0, n)
}

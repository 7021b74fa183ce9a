package scheduler

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

type mockNotifWriter struct {
	createFn func(ctx context.Context, userID int64, message string) error
}

func (m *mockNotifWriter) Create(ctx context.Context, userID int64, message string) error {
	return m.createFn(ctx, userID, message)
}

type mockReservationSource struct {
	listFn func(ctx context.Context, now time.Time) ([]model.Reservation, error)
}

func (m *mockReservationSource) ListPendingReminders(ctx context.Context, now time.Time) ([]model.Reservation, error) {
	return m.listFn(ctx, now)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func futureReservation(now time.Time) model.Reservation {
	return model.Reservation{
		ID:        42,
		UserID:    7,
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(4 * time.Hour),
		LotName:   "North Garage",
	}
}

func TestScheduleRegistersAllPhases(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(&mockNotifWriter{}, testLogger())

	res := futureReservation(now)
	s.Schedule(res, now)

	pending := s.Pending()
	require.Len(t, pending, 4)
	require.Equal(t, JobKey{PhasePreStart, 42}, pending[0].Key)
	require.Equal(t, res.StartTime.Add(-30*time.Minute), pending[0].FireAt)
	require.Equal(t, JobKey{PhaseStart, 42}, pending[1].Key)
	require.Equal(t, JobKey{PhasePreEnd, 42}, pending[2].Key)
	require.Equal(t, res.EndTime.Add(-30*time.Minute), pending[2].FireAt)
	require.Equal(t, JobKey{PhaseEnd, 42}, pending[3].Key)
	require.Equal(t, "Your reservation for North Garage starts in 30 minutes.", pending[0].Message)
	require.Equal(t, "Your reservation for North Garage has ended.", pending[3].Message)
}

func TestScheduleSkipsPastPhases(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(&mockNotifWriter{}, testLogger())

	// Already running: only the pre-end and end reminders are still ahead.
	res := model.Reservation{
		ID:        1,
		UserID:    7,
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(2 * time.Hour),
		LotName:   "Airport Lot",
	}
	s.Schedule(res, now)

	pending := s.Pending()
	require.Len(t, pending, 2)
	require.Equal(t, PhasePreEnd, pending[0].Key.Phase)
	require.Equal(t, PhaseEnd, pending[1].Key.Phase)
}

func TestScheduleOmitsPreEndForShortReservations(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(&mockNotifWriter{}, testLogger())

	res := model.Reservation{
		ID:        1,
		UserID:    7,
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(time.Hour + 20*time.Minute),
		LotName:   "Harbor Lot",
	}
	s.Schedule(res, now)

	for _, j := range s.Pending() {
		require.NotEqual(t, PhasePreEnd, j.Key.Phase)
	}
	require.Len(t, s.Pending(), 3)
}

func TestRemoveDropsAllJobsForReservation(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(&mockNotifWriter{}, testLogger())

	s.Schedule(futureReservation(now), now)
	other := futureReservation(now)
	other.ID = 43
	s.Schedule(other, now)
	require.Len(t, s.Pending(), 8)

	s.Remove(42)
	pending := s.Pending()
	require.Len(t, pending, 4)
	for _, j := range pending {
		require.Equal(t, int64(43), j.Key.ReservationID)
	}

	// Removing again, or removing an unknown id, is harmless.
	s.Remove(42)
	s.Remove(999)
	require.Len(t, s.Pending(), 4)
}

func TestFireEmitsDueJobsOnce(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	var got []string
	s := New(&mockNotifWriter{
		createFn: func(_ context.Context, userID int64, message string) error {
			require.Equal(t, int64(7), userID)
			got = append(got, message)
			return nil
		},
	}, testLogger())

	res := futureReservation(now)
	s.Schedule(res, now)

	// Nothing due yet.
	s.fire(context.Background(), now)
	require.Empty(t, got)
	require.Len(t, s.Pending(), 4)

	// Past the start: pre-start and start fire, and fire exactly once.
	s.fire(context.Background(), res.StartTime)
	require.Len(t, got, 2)
	s.fire(context.Background(), res.StartTime)
	require.Len(t, got, 2)
	require.Len(t, s.Pending(), 2)
}

func TestFireDropsFailedJobs(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(&mockNotifWriter{
		createFn: func(context.Context, int64, string) error {
			return errors.New("insert failed")
		},
	}, testLogger())

	res := futureReservation(now)
	s.Schedule(res, now)
	s.fire(context.Background(), res.EndTime)

	// Failed jobs are not requeued.
	require.Empty(t, s.Pending())
}

func TestReconcileRebuildsFutureJobs(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s := New(&mockNotifWriter{}, testLogger())

	src := &mockReservationSource{
		listFn: func(_ context.Context, got time.Time) ([]model.Reservation, error) {
			require.Equal(t, now, got)
			return []model.Reservation{
				futureReservation(now),
				{ID: 9, UserID: 8, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), LotName: "Airport Lot"},
			}, nil
		},
	}
	require.NoError(t, s.Reconcile(context.Background(), src, now))

	// 4 jobs for the future reservation, pre-end + end for the running one.
	require.Len(t, s.Pending(), 6)
}

func TestReconcilePropagatesSourceError(t *testing.T) {
	s := New(&mockNotifWriter{}, testLogger())
	src := &mockReservationSource{
		listFn: func(context.Context, time.Time) ([]model.Reservation, error) {
			return nil, errors.New("db down")
		},
	}
	require.Error(t, s.Reconcile(context.Background(), src, time.Now()))
}

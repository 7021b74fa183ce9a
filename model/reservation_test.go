package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReservationStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	upcoming := Reservation{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}
	require.Equal(t, StatusUpcoming, upcoming.Status(now))

	active := Reservation{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)}
	require.Equal(t, StatusActive, active.Status(now))

	// Boundaries count as active.
	atStart := Reservation{StartTime: now, EndTime: now.Add(time.Hour)}
	require.Equal(t, StatusActive, atStart.Status(now))
	atEnd := Reservation{StartTime: now.Add(-time.Hour), EndTime: now}
	require.Equal(t, StatusActive, atEnd.Status(now))

	done := Reservation{StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour)}
	require.Equal(t, StatusCompleted, done.Status(now))

	cancelled := Reservation{StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), IsCancelled: true}
	require.Equal(t, StatusCancelled, cancelled.Status(now))
}

func TestReservationOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	r := Reservation{StartTime: base, EndTime: base.Add(2 * time.Hour)}

	require.True(t, r.Overlaps(base.Add(time.Hour), base.Add(3*time.Hour)))
	require.True(t, r.Overlaps(base.Add(-time.Hour), base.Add(time.Hour)))
	require.True(t, r.Overlaps(base.Add(30*time.Minute), base.Add(90*time.Minute)))
	require.True(t, r.Overlaps(base.Add(-time.Hour), base.Add(3*time.Hour)))

	// Back-to-back intervals share an endpoint but do not overlap.
	require.False(t, r.Overlaps(base.Add(2*time.Hour), base.Add(3*time.Hour)))
	require.False(t, r.Overlaps(base.Add(-time.Hour), base))
	require.False(t, r.Overlaps(base.Add(3*time.Hour), base.Add(4*time.Hour)))
}

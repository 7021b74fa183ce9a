package reservation

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jnvillamor/smart-parking-app/model"
)

func TestValidateRequest(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	lot := &model.ParkingLot{ID: 1, Name: "Main Street Lot", TotalSlots: 10, Rate: 5, IsActive: true}

	ok := model.CreateReservationReq{ParkingID: 1, StartTime: now.Add(time.Hour), EndTime: now.Add(3 * time.Hour)}
	require.NoError(t, validateRequest(now, ok, lot))

	inactive := *lot
	inactive.IsActive = false
	require.Equal(t, ErrLotInactive, Code(validateRequest(now, ok, &inactive)))

	past := ok
	past.StartTime = now.Add(-time.Minute)
	require.Equal(t, ErrInvalidInterval, Code(validateRequest(now, past, lot)))

	inverted := ok
	inverted.StartTime, inverted.EndTime = inverted.EndTime, inverted.StartTime
	require.Equal(t, ErrInvalidInterval, Code(validateRequest(now, inverted, lot)))

	empty := ok
	empty.EndTime = empty.StartTime
	require.Equal(t, ErrInvalidInterval, Code(validateRequest(now, empty, lot)))

	// An inactive lot is reported before the bad interval.
	require.Equal(t, ErrLotInactive, Code(validateRequest(now, inverted, &inactive)))
}

func TestAdmissionDecision(t *testing.T) {
	require.NoError(t, admissionDecision(false, 0, 10))
	require.NoError(t, admissionDecision(false, 9, 10))

	require.Equal(t, ErrLotFull, Code(admissionDecision(false, 10, 10)))
	require.Equal(t, ErrLotFull, Code(admissionDecision(false, 11, 10)))

	require.Equal(t, ErrSelfOverlap, Code(admissionDecision(true, 0, 10)))
	// Overlap is reported before capacity.
	require.Equal(t, ErrSelfOverlap, Code(admissionDecision(true, 10, 10)))
}

func TestAdmissionAcceptsBackToBackIntervals(t *testing.T) {
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	existing := model.Reservation{StartTime: base, EndTime: base.Add(2 * time.Hour)}

	// A new interval starting exactly where the old one ends does not
	// overlap, so admission turns only on capacity.
	overlap := existing.Overlaps(existing.EndTime, existing.EndTime.Add(time.Hour))
	require.False(t, overlap)
	require.NoError(t, admissionDecision(overlap, 3, 10))
	require.Equal(t, ErrLotFull, Code(admissionDecision(overlap, 10, 10)))
}

func TestComputeCost(t *testing.T) {
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	hours, cost := computeCost(start, start.Add(2*time.Hour), 10.0)
	require.Equal(t, 2.0, hours)
	require.Equal(t, 20.0, cost)

	hours, cost = computeCost(start, start.Add(90*time.Minute), 7.5)
	require.Equal(t, 1.5, hours)
	require.Equal(t, 11.25, cost)

	// Fractional cents round to two decimals.
	hours, cost = computeCost(start, start.Add(20*time.Minute), 10.0)
	require.InDelta(t, 1.0/3.0, hours, 1e-9)
	require.Equal(t, 3.33, cost)

	_, cost = computeCost(start, start.Add(time.Hour), 0)
	require.Equal(t, 0.0, cost)
}

func TestCancelDecision(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	owner := model.User{ID: 7, Role: model.RoleUser}
	stranger := model.User{ID: 8, Role: model.RoleUser}
	admin := model.User{ID: 1, Role: model.RoleAdmin}

	upcoming := &model.Reservation{ID: 1, UserID: owner.ID, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)}
	require.NoError(t, cancelDecision(upcoming, owner, now))
	require.NoError(t, cancelDecision(upcoming, admin, now))
	require.Equal(t, ErrForbidden, Code(cancelDecision(upcoming, stranger, now)))

	active := &model.Reservation{ID: 2, UserID: owner.ID, StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)}
	require.Equal(t, ErrAlreadyTerminal, Code(cancelDecision(active, owner, now)))

	completed := &model.Reservation{ID: 3, UserID: owner.ID, StartTime: now.Add(-3 * time.Hour), EndTime: now.Add(-time.Hour)}
	require.Equal(t, ErrAlreadyTerminal, Code(cancelDecision(completed, owner, now)))

	cancelled := &model.Reservation{ID: 4, UserID: owner.ID, StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), IsCancelled: true}
	require.Equal(t, ErrAlreadyTerminal, Code(cancelDecision(cancelled, owner, now)))

	// Terminal state is checked before ownership, so strangers learn
	// nothing from the error about reservations they cannot touch.
	require.Equal(t, ErrAlreadyTerminal, Code(cancelDecision(active, stranger, now)))
}

func TestCodeUnwrapsNestedErrors(t *testing.T) {
	require.Equal(t, ErrLotFull, Code(makeErr(ErrLotFull)))
	require.Equal(t, ErrLotFull, Code(fmt.Errorf("admission: %w", makeErr(ErrLotFull))))
	require.Equal(t, ErrCode(""), Code(nil))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}

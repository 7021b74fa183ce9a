package model

import "time"

type ReservationStatus string

const (
	StatusUpcoming  ReservationStatus = "Upcoming"
	StatusActive    ReservationStatus = "Active"
	StatusCompleted ReservationStatus = "Completed"
	StatusCancelled ReservationStatus = "Cancelled"
)

type Reservation struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	ParkingID     int64     `json:"parking_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	DurationHours float64   `json:"duration_hours"`
	TotalCost     float64   `json:"total_cost"`
	IsCancelled   bool      `json:"is_cancelled"`
	Notified      bool      `json:"notified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined on read for listings and notification messages.
	LotName  string `json:"lot_name,omitempty"`
	UserName string `json:"user_name,omitempty"`
}

// Status is computed from the clock, never stored.
func (r Reservation) Status(now time.Time) ReservationStatus {
	switch {
	case r.IsCancelled:
		return StatusCancelled
	case !r.StartTime.After(now) && !r.EndTime.Before(now):
		return StatusActive
	case r.StartTime.After(now):
		return StatusUpcoming
	default:
		return StatusCompleted
	}
}

// Overlaps reports whether [r.StartTime, r.EndTime) intersects
// [start, end). Half-open, so back-to-back intervals do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.StartTime.Before(end) && start.Before(r.EndTime)
}

// CreateReservationReq is the reservation creation payload.
// swagger:model CreateReservationReq
type CreateReservationReq struct {
	ParkingID int64     `json:"parking_id" validate:"required,gt=0"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

type ReservationSummary struct {
	Total     int64 `json:"total"`
	Upcoming  int64 `json:"upcoming"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Cancelled int64 `json:"cancelled"`
}

package model

import "time"

type ParkingLot struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	TotalSlots int       `json:"total_slots"`
	Rate       float64   `json:"rate"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Derived on read from non-cancelled reservations that still
	// cover now or later; never stored.
	AvailableSlots int `json:"available_slots"`
}

// ParkingLotReq is the create/update payload for a lot.
// swagger:model ParkingLotReq
type ParkingLotReq struct {
	Name       string  `json:"name" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	TotalSlots int     `json:"total_slots" validate:"required,gt=1"`
	Rate       float64 `json:"rate" validate:"gte=0"`
}

type ParkingSummary struct {
	TotalParkingLots       int64 `json:"total_parking_lots"`
	TotalActiveParkingLots int64 `json:"total_active_parking_lots"`
	TotalAvailableSlots    int64 `json:"total_available_slots"`
	TotalReservedSlots     int64 `json:"total_reserved_slots"`
}

package model

type DashboardSummary struct {
	TotalUsers           int64   `json:"total_users"`
	TotalActiveParking   int64   `json:"total_active_parking"`
	TotalReservations    int64   `json:"total_reservations"`
	TotalRevenue         float64 `json:"total_revenue"`
	NewUsersToday        int64   `json:"new_users_today"`
	NewParkingLotsToday  int64   `json:"new_parking_lots_today"`
	NewReservationsToday int64   `json:"new_reservations_today"`
	NewRevenueToday      float64 `json:"new_revenue_today"`
}

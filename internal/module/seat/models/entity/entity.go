package entity

const (
	SeatStatusAvailable = "available"
	SeatStatusHeld      = "held"
	SeatStatusBooked    = "booked"
)

type SeatStatus struct {
	SeatID string `json:"seat_id"`
	Status string `json:"status"`
	Holder string `json:"holder,omitempty"`
}

type HoldResult struct {
	Held             bool     `json:"held"`
	ConflictingSeats []string `json:"conflicting_seats,omitempty"`
}

// ExpiredHold reports one booking whose seats were released by the sweep so
// the orchestrator can drive the owning booking to cancelled.
type ExpiredHold struct {
	ShowtimeID string   `json:"showtime_id"`
	BookingID  string   `json:"booking_id"`
	SeatIDs    []string `json:"seat_ids"`
}

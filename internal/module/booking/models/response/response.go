package response

import "time"

const (
	ResumeStatusConfirmed      = "confirmed"
	ResumeStatusFailed         = "failed"
	ResumeStatusReconciliation = "reconciliation_required"
)

const (
	ReasonSeatsExpired    = "seats_expired"
	ReasonPaymentDeclined = "payment_declined"
	ReasonSystemError     = "system_error"
	ReasonCancelled       = "booking_cancelled"
)

type UserServiceValidate struct {
	IsValid   bool   `json:"is_valid"`
	UserID    int64  `json:"user_id"`
	EmailUser string `json:"email_user"`
}

type CatalogShowtime struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Price     float64   `json:"price"`
	StartTime time.Time `json:"start_time"`
}

type BookingCreated struct {
	BookingID   string `json:"booking_id"`
	ApprovalURL string `json:"approval_url"`
}

type ResumeResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type BookedSeats struct {
	BookingID     string   `json:"booking_id"`
	ShowtimeID    string   `json:"showtime_id"`
	SeatIDs       []string `json:"seat_ids"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status"`
	PaymentStatus string   `json:"payment_status,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

package entity

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	BookingStatusPending         = "pending"
	BookingStatusAwaitingPayment = "awaiting_payment"
	BookingStatusConfirmed       = "confirmed"
	BookingStatusCancelled       = "cancelled"
)

const (
	PaymentStatusCreated   = "created"
	PaymentStatusApproved  = "approved"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Booking struct {
	ID         uuid.UUID      `db:"id"`
	UserID     int64          `db:"user_id"`
	ShowtimeID string         `db:"showtime_id"`
	SeatIDs    pq.StringArray `db:"seat_ids"`
	Amount     float64        `db:"amount"`
	Currency   string         `db:"currency"`
	Status     string         `db:"status"`
	PaymentRef sql.NullString `db:"payment_ref"`
	HoldTaskID sql.NullString `db:"hold_task_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  sql.NullTime   `db:"updated_at"`
}

type Payment struct {
	ID             int64        `db:"id"`
	BookingID      uuid.UUID    `db:"booking_id"`
	Amount         float64      `db:"amount"`
	Currency       string       `db:"currency"`
	Status         string       `db:"status"`
	ProviderRef    string       `db:"provider_ref"`
	IdempotencyKey string       `db:"idempotency_key"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      sql.NullTime `db:"updated_at"`
}

// BookingIntent is the durable replay record for an in-flight booking. It is
// keyed by the token embedded in the payment-provider return URL so a resume
// works from any device, after any restart.
type BookingIntent struct {
	Token      string         `db:"token"`
	BookingID  uuid.UUID      `db:"booking_id"`
	ShowtimeID string         `db:"showtime_id"`
	SeatIDs    pq.StringArray `db:"seat_ids"`
	UserID     int64          `db:"user_id"`
	Email      string         `db:"email"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Reconciliation records a capture that succeeded while the seat confirm step
// failed. Money has moved, so this is reported rather than compensated.
type Reconciliation struct {
	ID          int64     `db:"id"`
	BookingID   uuid.UUID `db:"booking_id"`
	ProviderRef string    `db:"provider_ref"`
	Reason      string    `db:"reason"`
	CreatedAt   time.Time `db:"created_at"`
}

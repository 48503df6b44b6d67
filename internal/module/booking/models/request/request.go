package request

type BookSeats struct {
	ShowtimeID string   `json:"showtime_id" validate:"required"`
	SeatIDs    []string `json:"seat_ids" validate:"required,min=1,unique"`
}

type ResumeBooking struct {
	Token         string `json:"token" validate:"required"`
	ProviderToken string `json:"provider_token" validate:"required"`
}

type HoldExpiration struct {
	BookingID string `json:"booking_id" validate:"required"`
}

type MaterializeSeatMap struct {
	SeatNumbers []string `json:"seat_numbers" validate:"required,min=1,unique"`
}

type ReconciliationEvent struct {
	BookingID   string `json:"booking_id" validate:"required"`
	ProviderRef string `json:"provider_ref"`
	Reason      string `json:"reason" validate:"required"`
}

type NotificationMessage struct {
	BookingID      string `json:"booking_id" validate:"required"`
	Message        string `json:"message" validate:"required"`
	Reason         string `json:"reason"`
	EmailRecipient string `json:"email_recipient" validate:"required"`
}

type PoisonedQueue struct {
	TopicTarget string      `json:"topic_target" validate:"required"`
	ErrorMsg    string      `json:"error_msg" validate:"required"`
	Payload     interface{} `json:"payload" validate:"required"`
}

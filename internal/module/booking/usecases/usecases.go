package usecases

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.elastic.co/apm"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/entity"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/request"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/response"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/repositories"
	seatentity "github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/seat/models/entity"
	seatrepo "github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/seat/repositories"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/payment/gateway"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/backoff"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
)

const (
	TopicBookingConfirmed      = "booking_confirmed"
	TopicBookingFailed         = "booking_failed"
	TopicBookingReconciliation = "booking_reconciliation"
)

// settledRetention is how long intents and cancelled bookings outlive their
// terminal state, so late resumes still get an idempotent answer.
const settledRetention = 24 * time.Hour

type usecase struct {
	repo        repositories.Repositories
	seats       seatrepo.SeatLedger
	gateway     gateway.Gateway
	log         *otelzap.Logger
	publish     message.Publisher
	retry       backoff.Policy
	holdTimeout time.Duration
	currency    string
}

type Usecase interface {
	BookSeats(ctx context.Context, payload *request.BookSeats, userID int64, emailUser string) (response.BookingCreated, error)
	ResumeBooking(ctx context.Context, payload *request.ResumeBooking, userID int64) (response.ResumeResult, error)
	CancelBooking(ctx context.Context, bookingID string, userID int64) error
	ExpireBooking(ctx context.Context, payload *request.HoldExpiration) error
	SweepExpiredHolds(ctx context.Context) error
	ShowBookings(ctx context.Context, userID int64) ([]response.BookedSeats, error)
	ShowSeatStatuses(ctx context.Context, showtimeID string) ([]seatentity.SeatStatus, error)
	MaterializeSeatMap(ctx context.Context, showtimeID string, seatNumbers []string) error
	RecordReconciliation(ctx context.Context, payload *request.ReconciliationEvent) error
}

func New(repo repositories.Repositories, seats seatrepo.SeatLedger, gw gateway.Gateway, log *otelzap.Logger, publish message.Publisher, retry backoff.Policy, holdTimeout time.Duration, currency string) Usecase {
	return &usecase{
		repo:        repo,
		seats:       seats,
		gateway:     gw,
		log:         log,
		publish:     publish,
		retry:       retry,
		holdTimeout: holdTimeout,
		currency:    currency,
	}
}

func captureKey(bookingID string) string {
	return fmt.Sprintf("capture-%s", bookingID)
}

// BookSeats drives the first half of the saga: hold seats, create the
// booking, initiate payment, persist the replay intent and park the workflow
// until the user returns from the provider redirect.
func (u *usecase) BookSeats(ctx context.Context, payload *request.BookSeats, userID int64, emailUser string) (response.BookingCreated, error) {
	if len(payload.SeatIDs) == 0 {
		return response.BookingCreated{}, errors.BadRequest("seat selection is empty")
	}
	seen := make(map[string]struct{}, len(payload.SeatIDs))
	for _, seatID := range payload.SeatIDs {
		if _, dup := seen[seatID]; dup {
			return response.BookingCreated{}, errors.BadRequest(fmt.Sprintf("duplicate seat %s in selection", seatID))
		}
		seen[seatID] = struct{}{}
	}

	var showtime response.CatalogShowtime
	err := u.retry.Do(ctx, func() error {
		var err error
		showtime, err = u.repo.FindShowtime(ctx, payload.ShowtimeID)
		return err
	})
	if err != nil {
		return response.BookingCreated{}, err
	}

	bookingID := uuid.New()
	amount := showtime.Price * float64(len(payload.SeatIDs))

	// The hold is all-or-nothing, so retrying after a transient ledger
	// failure never leaves partial seat state behind.
	var holdResult seatentity.HoldResult
	err = u.retry.Do(ctx, func() error {
		var err error
		holdResult, err = u.seats.TryHold(ctx, payload.ShowtimeID, payload.SeatIDs, bookingID.String())
		return err
	})
	if err != nil {
		return response.BookingCreated{}, err
	}
	if !holdResult.Held {
		return response.BookingCreated{}, errors.SeatsUnavailable(holdResult.ConflictingSeats)
	}

	booking := entity.Booking{
		ID:         bookingID,
		UserID:     userID,
		ShowtimeID: payload.ShowtimeID,
		SeatIDs:    payload.SeatIDs,
		Amount:     amount,
		Currency:   u.currency,
		Status:     entity.BookingStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := u.retry.Do(ctx, func() error {
		return u.repo.InsertBooking(ctx, &booking)
	}); err != nil {
		u.releaseSeats(ctx, &booking)
		return response.BookingCreated{}, err
	}

	var initiated gateway.InitiateResult
	err = u.retry.Do(ctx, func() error {
		var err error
		initiated, err = u.gateway.Initiate(ctx, bookingID.String(), amount, u.currency)
		return err
	})
	if err != nil {
		u.compensate(ctx, &booking, response.ReasonSystemError, emailUser)
		return response.BookingCreated{}, err
	}

	payment := entity.Payment{
		BookingID:      bookingID,
		Amount:         amount,
		Currency:       u.currency,
		Status:         entity.PaymentStatusCreated,
		ProviderRef:    initiated.ProviderRef,
		IdempotencyKey: captureKey(bookingID.String()),
	}
	if err := u.repo.UpsertPayment(ctx, &payment); err != nil {
		u.compensate(ctx, &booking, response.ReasonSystemError, emailUser)
		return response.BookingCreated{}, err
	}

	if err := u.repo.UpdateBookingStatus(ctx, bookingID.String(), entity.BookingStatusAwaitingPayment); err != nil {
		u.compensate(ctx, &booking, response.ReasonSystemError, emailUser)
		return response.BookingCreated{}, err
	}
	booking.Status = entity.BookingStatusAwaitingPayment
	if err := u.repo.SetBookingPaymentRef(ctx, bookingID.String(), initiated.ProviderRef); err != nil {
		u.compensate(ctx, &booking, response.ReasonSystemError, emailUser)
		return response.BookingCreated{}, err
	}

	// The intent is what survives the redirect gap: keyed by the provider
	// token embedded in the return URL, not by anything client-side.
	intent := entity.BookingIntent{
		Token:      initiated.ProviderRef,
		BookingID:  bookingID,
		ShowtimeID: payload.ShowtimeID,
		SeatIDs:    payload.SeatIDs,
		UserID:     userID,
		Email:      emailUser,
		CreatedAt:  time.Now(),
	}
	if err := u.repo.InsertIntent(ctx, &intent); err != nil {
		u.compensate(ctx, &booking, response.ReasonSystemError, emailUser)
		return response.BookingCreated{}, err
	}

	expiration := request.HoldExpiration{BookingID: bookingID.String()}
	taskPayload, _ := json.Marshal(expiration)
	taskID, err := u.repo.SetTaskScheduler(ctx, time.Now().Add(u.holdTimeout), taskPayload)
	if err != nil {
		// The periodic sweep still guarantees expiry, so a failed enqueue is
		// logged rather than failing the booking.
		u.log.Ctx(ctx).Error(fmt.Sprintf("error schedule hold expiry for booking %s: %v", bookingID, err))
	} else if err := u.repo.SetBookingHoldTask(ctx, bookingID.String(), taskID); err != nil {
		u.log.Ctx(ctx).Error(fmt.Sprintf("error record hold task for booking %s: %v", bookingID, err))
	}

	return response.BookingCreated{
		BookingID:   bookingID.String(),
		ApprovalURL: initiated.ApprovalURL,
	}, nil
}

// ResumeBooking is the replay half of the saga. It re-attaches to the durable
// intent, re-verifies the hold, captures with the stable idempotency key and
// settles seat and booking state.
func (u *usecase) ResumeBooking(ctx context.Context, payload *request.ResumeBooking, userID int64) (response.ResumeResult, error) {
	intent, err := u.repo.FindIntentByToken(ctx, payload.Token)
	if err != nil {
		return response.ResumeResult{}, err
	}
	if intent.UserID != userID {
		return response.ResumeResult{}, errors.NotFound("booking intent not found")
	}

	booking, err := u.repo.FindBookingByID(ctx, intent.BookingID.String())
	if err != nil {
		return response.ResumeResult{}, err
	}

	// Repeated resumes are answered from durable state, never re-executed.
	switch booking.Status {
	case entity.BookingStatusConfirmed:
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusConfirmed}, nil
	case entity.BookingStatusCancelled:
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusFailed, Reason: response.ReasonCancelled}, nil
	case entity.BookingStatusAwaitingPayment:
	default:
		return response.ResumeResult{}, errors.StateConflict(fmt.Sprintf("booking %s is not awaiting payment", booking.ID))
	}

	// Defend against the hold timing out while the user sat on the provider
	// page: never capture for seats this booking no longer owns.
	stillHeld, err := u.seats.HeldBy(ctx, booking.ShowtimeID, booking.SeatIDs, booking.ID.String())
	if err != nil {
		return response.ResumeResult{}, err
	}
	if !stillHeld {
		u.compensate(ctx, &booking, response.ReasonSeatsExpired, intent.Email)
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusFailed, Reason: response.ReasonSeatsExpired}, nil
	}

	payment, err := u.repo.FindPaymentByBookingID(ctx, booking.ID.String())
	if err != nil {
		return response.ResumeResult{}, err
	}

	// The user coming back through the return URL means the provider approved
	// the order. Recorded once; a resume retried after a capture timeout finds
	// it already set.
	if payment.Status == entity.PaymentStatusCreated {
		payment.Status = entity.PaymentStatusApproved
		if err := u.repo.UpsertPayment(ctx, &payment); err != nil {
			return response.ResumeResult{}, err
		}
	}

	var captured gateway.CaptureResult
	err = u.retry.Do(ctx, func() error {
		var err error
		captured, err = u.gateway.Capture(ctx, payload.ProviderToken, payment.IdempotencyKey)
		return err
	})
	if err != nil {
		if errors.IsTransient(err) {
			// Unknown outcome. Nothing is compensated; the next resume
			// re-captures under the same idempotency key.
			return response.ResumeResult{}, err
		}
		u.compensate(ctx, &booking, response.ReasonSystemError, intent.Email)
		return response.ResumeResult{}, err
	}

	if captured.Status == gateway.StatusDeclined {
		payment.Status = entity.PaymentStatusFailed
		if err := u.repo.UpsertPayment(ctx, &payment); err != nil {
			u.log.Ctx(ctx).Error(fmt.Sprintf("error record declined payment for booking %s: %v", booking.ID, err))
		}
		u.compensate(ctx, &booking, response.ReasonPaymentDeclined, intent.Email)
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusFailed, Reason: response.ReasonPaymentDeclined}, nil
	}

	payment.Status = entity.PaymentStatusCompleted
	payment.ProviderRef = captured.ProviderRef
	if err := u.repo.UpsertPayment(ctx, &payment); err != nil {
		// Money has moved. This is a reconciliation case, not a rollback.
		u.reportReconciliation(ctx, &booking, captured.ProviderRef, "capture succeeded but payment record update failed", err)
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusReconciliation}, nil
	}

	if err := u.seats.Confirm(ctx, booking.ShowtimeID, booking.SeatIDs, booking.ID.String()); err != nil {
		u.reportReconciliation(ctx, &booking, captured.ProviderRef, "capture succeeded but seat confirm failed", err)
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusReconciliation}, nil
	}

	if err := u.repo.UpdateBookingStatus(ctx, booking.ID.String(), entity.BookingStatusConfirmed); err != nil {
		u.reportReconciliation(ctx, &booking, captured.ProviderRef, "capture succeeded but booking status update failed", err)
		return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusReconciliation}, nil
	}

	u.dropHoldTask(ctx, &booking)
	u.notify(ctx, TopicBookingConfirmed, request.NotificationMessage{
		BookingID:      booking.ID.String(),
		Message:        "your booking is confirmed",
		EmailRecipient: intent.Email,
	})

	return response.ResumeResult{BookingID: booking.ID.String(), Status: response.ResumeStatusConfirmed}, nil
}

// CancelBooking is the user-facing cancel. Cancelling an already-cancelled
// booking is a no-op.
func (u *usecase) CancelBooking(ctx context.Context, bookingID string, userID int64) error {
	booking, err := u.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return errors.NotFound("booking not found")
	}

	switch booking.Status {
	case entity.BookingStatusCancelled:
		return nil
	case entity.BookingStatusConfirmed:
		return errors.InvalidTransition("confirmed bookings cannot be cancelled here")
	}

	return u.compensate(ctx, &booking, response.ReasonCancelled, "")
}

// ExpireBooking is the delayed-task target enqueued when the hold was taken.
func (u *usecase) ExpireBooking(ctx context.Context, payload *request.HoldExpiration) error {
	booking, err := u.repo.FindBookingByID(ctx, payload.BookingID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil
		}
		return err
	}

	if booking.Status == entity.BookingStatusConfirmed || booking.Status == entity.BookingStatusCancelled {
		return nil
	}

	return u.compensate(ctx, &booking, response.ReasonSeatsExpired, "")
}

// SweepExpiredHolds is the periodic safety net: it releases every stale hold
// in the ledger and converges the owning bookings to cancelled.
func (u *usecase) SweepExpiredHolds(ctx context.Context) error {
	expired, err := u.seats.ExpireHolds(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, hold := range expired {
		booking, err := u.repo.FindBookingByID(ctx, hold.BookingID)
		if err != nil {
			u.log.Ctx(ctx).Error(fmt.Sprintf("error load booking %s flagged by sweep: %v", hold.BookingID, err))
			continue
		}
		if booking.Status == entity.BookingStatusConfirmed || booking.Status == entity.BookingStatusCancelled {
			continue
		}
		// Seats are already released; finish the cancellation.
		if err := u.cancelRecords(ctx, &booking, response.ReasonSeatsExpired, ""); err != nil {
			u.log.Ctx(ctx).Error(fmt.Sprintf("error cancel swept booking %s: %v", booking.ID, err))
		}
	}

	if pruned, err := u.repo.PruneIntents(ctx, settledRetention); err != nil {
		u.log.Ctx(ctx).Error(fmt.Sprintf("error prune booking intents: %v", err))
	} else if pruned > 0 {
		u.log.Ctx(ctx).Info(fmt.Sprintf("pruned %d settled booking intents", pruned))
	}

	// Cancelled bookings past the retention window are noise; confirmed ones
	// stay as the user's history.
	staleIDs, err := u.repo.FindStaleCancelledBookings(ctx, settledRetention)
	if err != nil {
		u.log.Ctx(ctx).Error(fmt.Sprintf("error list stale cancelled bookings: %v", err))
		return nil
	}
	for _, staleID := range staleIDs {
		if err := u.repo.DeleteBooking(ctx, staleID); err != nil {
			u.log.Ctx(ctx).Error(fmt.Sprintf("error delete cancelled booking %s: %v", staleID, err))
		}
	}

	return nil
}

func (u *usecase) ShowBookings(ctx context.Context, userID int64) ([]response.BookedSeats, error) {
	bookings, err := u.repo.FindBookingsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]response.BookedSeats, 0, len(bookings))
	for _, booking := range bookings {
		booked := response.BookedSeats{
			BookingID:  booking.ID.String(),
			ShowtimeID: booking.ShowtimeID,
			SeatIDs:    booking.SeatIDs,
			Amount:     booking.Amount,
			Currency:   booking.Currency,
			Status:     booking.Status,
			CreatedAt:  booking.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if payment, err := u.repo.FindPaymentByBookingID(ctx, booking.ID.String()); err == nil {
			booked.PaymentStatus = payment.Status
		}
		result = append(result, booked)
	}

	return result, nil
}

func (u *usecase) ShowSeatStatuses(ctx context.Context, showtimeID string) ([]seatentity.SeatStatus, error) {
	statuses, err := u.seats.SeatStatuses(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	// Holder booking ids are internal; callers only see the status.
	for i := range statuses {
		statuses[i].Holder = ""
	}
	return statuses, nil
}

func (u *usecase) MaterializeSeatMap(ctx context.Context, showtimeID string, seatNumbers []string) error {
	return u.seats.MaterializeSeatMap(ctx, showtimeID, seatNumbers)
}

// RecordReconciliation persists a reconciliation event consumed from the
// message stream.
func (u *usecase) RecordReconciliation(ctx context.Context, payload *request.ReconciliationEvent) error {
	bookingID, err := uuid.Parse(payload.BookingID)
	if err != nil {
		return errors.BadRequest("invalid booking id in reconciliation event")
	}
	return u.repo.InsertReconciliation(ctx, &entity.Reconciliation{
		BookingID:   bookingID,
		ProviderRef: payload.ProviderRef,
		Reason:      payload.Reason,
	})
}

// compensate rolls the saga back: seats released, booking cancelled, payment
// failed, expiry task dropped, caller notified. Safe to run more than once.
func (u *usecase) compensate(ctx context.Context, booking *entity.Booking, reason, emailUser string) error {
	u.releaseSeats(ctx, booking)
	return u.cancelRecords(ctx, booking, reason, emailUser)
}

func (u *usecase) releaseSeats(ctx context.Context, booking *entity.Booking) {
	if err := u.seats.Release(ctx, booking.ShowtimeID, booking.SeatIDs, booking.ID.String()); err != nil {
		// The sweep releases anything left behind.
		u.log.Ctx(ctx).Error(fmt.Sprintf("error release seats for booking %s: %v", booking.ID, err))
	}
}

func (u *usecase) cancelRecords(ctx context.Context, booking *entity.Booking, reason, emailUser string) error {
	if err := u.repo.UpdateBookingStatus(ctx, booking.ID.String(), entity.BookingStatusCancelled); err != nil {
		if !errors.IsConflict(err) {
			return err
		}
	}
	booking.Status = entity.BookingStatusCancelled

	if payment, err := u.repo.FindPaymentByBookingID(ctx, booking.ID.String()); err == nil {
		if payment.Status != entity.PaymentStatusCompleted {
			payment.Status = entity.PaymentStatusFailed
			if err := u.repo.UpsertPayment(ctx, &payment); err != nil {
				u.log.Ctx(ctx).Error(fmt.Sprintf("error fail payment for booking %s: %v", booking.ID, err))
			}
		}
	}

	u.dropHoldTask(ctx, booking)

	if emailUser != "" {
		u.notify(ctx, TopicBookingFailed, request.NotificationMessage{
			BookingID:      booking.ID.String(),
			Message:        "your booking could not be completed",
			Reason:         reason,
			EmailRecipient: emailUser,
		})
	}

	return nil
}

func (u *usecase) dropHoldTask(ctx context.Context, booking *entity.Booking) {
	if booking.HoldTaskID.Valid && booking.HoldTaskID.String != "" {
		if err := u.repo.DeleteTaskScheduler(ctx, booking.HoldTaskID.String); err != nil {
			u.log.Ctx(ctx).Error(fmt.Sprintf("error drop hold task for booking %s: %v", booking.ID, err))
		}
		booking.HoldTaskID = sql.NullString{}
	}
}

// reportReconciliation records that money moved without the matching seat or
// booking state. Surfaced, never silently compensated.
func (u *usecase) reportReconciliation(ctx context.Context, booking *entity.Booking, providerRef, reason string, cause error) {
	u.log.Ctx(ctx).Error(fmt.Sprintf("reconciliation required for booking %s: %s: %v", booking.ID, reason, cause))
	apm.CaptureError(ctx, fmt.Errorf("reconciliation required for booking %s: %s: %w", booking.ID, reason, cause)).Send()

	event := request.ReconciliationEvent{
		BookingID:   booking.ID.String(),
		ProviderRef: providerRef,
		Reason:      reason,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := u.publish.Publish(TopicBookingReconciliation, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		// Fall back to a direct write so the case is never dropped.
		u.log.Ctx(ctx).Error(fmt.Sprintf("error publish reconciliation for booking %s: %v", booking.ID, err))
		if err := u.RecordReconciliation(ctx, &event); err != nil {
			u.log.Ctx(ctx).Error(fmt.Sprintf("error record reconciliation for booking %s: %v", booking.ID, err))
		}
	}
}

func (u *usecase) notify(ctx context.Context, topic string, msg request.NotificationMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := u.publish.Publish(topic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		u.log.Ctx(ctx).Error(fmt.Sprintf("error publish %s for booking %s: %v", topic, msg.BookingID, err))
	}
}

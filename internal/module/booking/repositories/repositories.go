package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	circuit "github.com/rubyist/circuitbreaker"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/ChickenSoup269/Zero-Movie-sub001/config"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/entity"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/response"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/scheduler"
)

type repositories struct {
	db             *sqlx.DB
	log            *otelzap.Logger
	httpClient     *circuit.HTTPClient
	cfgUserService *config.UserServiceConfig
	cfgCatalog     *config.CatalogServiceConfig
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector
}

type Repositories interface {
	// http
	ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error)
	FindShowtime(ctx context.Context, showtimeID string) (response.CatalogShowtime, error)
	// db
	InsertBooking(ctx context.Context, booking *entity.Booking) error
	FindBookingByID(ctx context.Context, bookingID string) (entity.Booking, error)
	FindBookingsByUserID(ctx context.Context, userID int64) ([]entity.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID, newStatus string) error
	SetBookingPaymentRef(ctx context.Context, bookingID, paymentRef string) error
	SetBookingHoldTask(ctx context.Context, bookingID, taskID string) error
	DeleteBooking(ctx context.Context, bookingID string) error
	FindStaleCancelledBookings(ctx context.Context, olderThan time.Duration) ([]string, error)
	UpsertPayment(ctx context.Context, payment *entity.Payment) error
	FindPaymentByBookingID(ctx context.Context, bookingID string) (entity.Payment, error)
	InsertIntent(ctx context.Context, intent *entity.BookingIntent) error
	FindIntentByToken(ctx context.Context, token string) (entity.BookingIntent, error)
	PruneIntents(ctx context.Context, olderThan time.Duration) (int64, error)
	InsertReconciliation(ctx context.Context, rec *entity.Reconciliation) error
	// scheduler
	SetTaskScheduler(ctx context.Context, processAt time.Time, payload []byte) (string, error)
	DeleteTaskScheduler(ctx context.Context, taskID string) error
}

func New(db *sqlx.DB, log *otelzap.Logger, httpClient *circuit.HTTPClient, cfgUserService *config.UserServiceConfig, cfgCatalog *config.CatalogServiceConfig, asynqClient *asynq.Client, asynqInspector *asynq.Inspector) Repositories {
	return &repositories{
		db:             db,
		log:            log,
		httpClient:     httpClient,
		cfgUserService: cfgUserService,
		cfgCatalog:     cfgCatalog,
		asynqClient:    asynqClient,
		asynqInspector: asynqInspector,
	}
}

// legalTransitions is the booking lifecycle. Anything not listed here is an
// invalid transition; confirmed and cancelled are terminal.
var legalTransitions = map[string][]string{
	entity.BookingStatusPending:         {entity.BookingStatusAwaitingPayment, entity.BookingStatusCancelled},
	entity.BookingStatusAwaitingPayment: {entity.BookingStatusConfirmed, entity.BookingStatusCancelled},
}

// InsertBooking implements Repositories.
func (r *repositories) InsertBooking(ctx context.Context, booking *entity.Booking) error {
	query := `INSERT INTO bookings (id, user_id, showtime_id, seat_ids, amount, currency, status, created_at)
		VALUES (:id, :user_id, :showtime_id, :seat_ids, :amount, :currency, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return errors.InternalServerError("error insert booking")
	}
	return nil
}

// FindBookingByID implements Repositories.
func (r *repositories) FindBookingByID(ctx context.Context, bookingID string) (entity.Booking, error) {
	query := `SELECT * FROM bookings WHERE id = $1`
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, query, bookingID)
	if err == sql.ErrNoRows {
		return entity.Booking{}, errors.NotFound("booking not found")
	}
	if err != nil {
		return entity.Booking{}, errors.InternalServerError("error find booking by id")
	}
	return booking, nil
}

// FindBookingsByUserID implements Repositories.
func (r *repositories) FindBookingsByUserID(ctx context.Context, userID int64) ([]entity.Booking, error) {
	query := `SELECT * FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`
	var bookings []entity.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, errors.InternalServerError("error find bookings by user id")
	}
	return bookings, nil
}

// UpdateBookingStatus implements Repositories. The current row is locked and
// the transition checked against the lifecycle table, so the booking status
// can only move along legal edges no matter how callers race.
func (r *repositories) UpdateBookingStatus(ctx context.Context, bookingID, newStatus string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.InternalServerError("error starting transaction")
	}

	var currentStatus string
	err = tx.GetContext(ctx, &currentStatus, `SELECT status FROM bookings WHERE id = $1 FOR UPDATE`, bookingID)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return errors.NotFound("booking not found")
	}
	if err != nil {
		tx.Rollback()
		return errors.InternalServerError("error locking booking row")
	}

	allowed := false
	for _, next := range legalTransitions[currentStatus] {
		if next == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		tx.Rollback()
		return errors.InvalidTransition(fmt.Sprintf("booking status %s cannot move to %s", currentStatus, newStatus))
	}

	if _, err = tx.ExecContext(ctx, `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`, newStatus, bookingID); err != nil {
		tx.Rollback()
		return errors.InternalServerError("error update booking status")
	}

	if err = tx.Commit(); err != nil {
		return errors.InternalServerError("error committing transaction")
	}

	return nil
}

// SetBookingPaymentRef implements Repositories.
func (r *repositories) SetBookingPaymentRef(ctx context.Context, bookingID, paymentRef string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE bookings SET payment_ref = $1, updated_at = NOW() WHERE id = $2`, paymentRef, bookingID); err != nil {
		return errors.InternalServerError("error set booking payment ref")
	}
	return nil
}

// SetBookingHoldTask implements Repositories.
func (r *repositories) SetBookingHoldTask(ctx context.Context, bookingID, taskID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE bookings SET hold_task_id = $1, updated_at = NOW() WHERE id = $2`, taskID, bookingID); err != nil {
		return errors.InternalServerError("error set booking hold task")
	}
	return nil
}

// DeleteBooking implements Repositories. Only cancelled bookings may be
// removed; the orchestrator's compensation has already released their seats.
func (r *repositories) DeleteBooking(ctx context.Context, bookingID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1 AND status = $2`, bookingID, entity.BookingStatusCancelled)
	if err != nil {
		return errors.InternalServerError("error delete booking")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.InternalServerError("error delete booking")
	}
	if rows == 0 {
		return errors.InvalidTransition("only cancelled bookings can be deleted")
	}
	return nil
}

// FindStaleCancelledBookings implements Repositories. Lists cancelled bookings
// whose last change is older than the retention window, so the sweep can reap
// them.
func (r *repositories) FindStaleCancelledBookings(ctx context.Context, olderThan time.Duration) ([]string, error) {
	query := `SELECT id FROM bookings
		WHERE status = $1
		AND COALESCE(updated_at, created_at) < NOW() - $2::interval`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, entity.BookingStatusCancelled, fmt.Sprintf("%d seconds", int64(olderThan.Seconds()))); err != nil {
		return nil, errors.InternalServerError("error find stale cancelled bookings")
	}
	return ids, nil
}

// UpsertPayment implements Repositories. There is at most one payment row per
// booking; repeated writes update it in place.
func (r *repositories) UpsertPayment(ctx context.Context, payment *entity.Payment) error {
	query := `INSERT INTO payments (booking_id, amount, currency, status, provider_ref, idempotency_key, created_at)
		VALUES (:booking_id, :amount, :currency, :status, :provider_ref, :idempotency_key, NOW())
		ON CONFLICT (booking_id) DO UPDATE
		SET status = EXCLUDED.status, provider_ref = EXCLUDED.provider_ref, updated_at = NOW()`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return errors.InternalServerError("error upsert payment")
	}
	return nil
}

// FindPaymentByBookingID implements Repositories.
func (r *repositories) FindPaymentByBookingID(ctx context.Context, bookingID string) (entity.Payment, error) {
	query := `SELECT * FROM payments WHERE booking_id = $1`
	var payment entity.Payment
	err := r.db.GetContext(ctx, &payment, query, bookingID)
	if err == sql.ErrNoRows {
		return entity.Payment{}, errors.NotFound("payment not found")
	}
	if err != nil {
		return entity.Payment{}, errors.InternalServerError("error find payment by booking id")
	}
	return payment, nil
}

// InsertIntent implements Repositories.
func (r *repositories) InsertIntent(ctx context.Context, intent *entity.BookingIntent) error {
	query := `INSERT INTO booking_intents (token, booking_id, showtime_id, seat_ids, user_id, email, created_at)
		VALUES (:token, :booking_id, :showtime_id, :seat_ids, :user_id, :email, :created_at)
		ON CONFLICT (token) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, intent); err != nil {
		return errors.InternalServerError("error insert booking intent")
	}
	return nil
}

// FindIntentByToken implements Repositories.
func (r *repositories) FindIntentByToken(ctx context.Context, token string) (entity.BookingIntent, error) {
	query := `SELECT * FROM booking_intents WHERE token = $1`
	var intent entity.BookingIntent
	err := r.db.GetContext(ctx, &intent, query, token)
	if err == sql.ErrNoRows {
		return entity.BookingIntent{}, errors.NotFound("booking intent not found")
	}
	if err != nil {
		return entity.BookingIntent{}, errors.InternalServerError("error find booking intent")
	}
	return intent, nil
}

// PruneIntents implements Repositories. Intents for bookings that reached a
// terminal state are kept for a retention window so late resumes still get an
// idempotent answer, then reaped by the sweep.
func (r *repositories) PruneIntents(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM booking_intents bi
		USING bookings b
		WHERE bi.booking_id = b.id
		AND b.status IN ($1, $2)
		AND bi.created_at < NOW() - $3::interval`
	result, err := r.db.ExecContext(ctx, query, entity.BookingStatusConfirmed, entity.BookingStatusCancelled, fmt.Sprintf("%d seconds", int64(olderThan.Seconds())))
	if err != nil {
		return 0, errors.InternalServerError("error prune booking intents")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.InternalServerError("error prune booking intents")
	}
	return rows, nil
}

// InsertReconciliation implements Repositories.
func (r *repositories) InsertReconciliation(ctx context.Context, rec *entity.Reconciliation) error {
	query := `INSERT INTO reconciliations (booking_id, provider_ref, reason, created_at)
		VALUES (:booking_id, :provider_ref, :reason, NOW())`
	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return errors.InternalServerError("error insert reconciliation")
	}
	return nil
}

// SetTaskScheduler implements Repositories. Enqueues the delayed hold-expiry
// task and returns its id so the booking can drop it on confirm or cancel.
func (r *repositories) SetTaskScheduler(ctx context.Context, processAt time.Time, payload []byte) (string, error) {
	task := asynq.NewTask(scheduler.TypeHoldExpired, payload)
	info, err := r.asynqClient.EnqueueContext(ctx, task, asynq.ProcessAt(processAt), asynq.MaxRetry(3))
	if err != nil {
		return "", errors.ServiceUnavailable("error enqueue hold expiry task")
	}
	return info.ID, nil
}

// DeleteTaskScheduler implements Repositories. The task may already have run
// or been deleted; both count as success.
func (r *repositories) DeleteTaskScheduler(ctx context.Context, taskID string) error {
	err := r.asynqInspector.DeleteTask("default", taskID)
	if err != nil && err != asynq.ErrTaskNotFound {
		r.log.Ctx(ctx).Error(fmt.Sprintf("error delete scheduled task %s: %v", taskID, err))
		return errors.InternalServerError("error delete scheduled task")
	}
	return nil
}

func (r *repositories) ValidateToken(ctx context.Context, token string) (response.UserServiceValidate, error) {
	// http call to user service
	url := fmt.Sprintf("http://%s:%s/api/private/token/validate?token=%s", r.cfgUserService.Host, r.cfgUserService.Port, token)
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return response.UserServiceValidate{}, errors.ServiceUnavailable("error call user service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		r.log.Ctx(ctx).Error(fmt.Sprintf("invalid token: status %d", resp.StatusCode))
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	var respData response.UserServiceValidate
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return response.UserServiceValidate{}, errors.InternalServerError("error parse user service response")
	}

	if !respData.IsValid {
		return response.UserServiceValidate{}, errors.UnauthorizedError("invalid token")
	}

	return respData, nil
}

// FindShowtime implements Repositories. Read-only catalog lookup used to
// validate the seat selection and price the booking.
func (r *repositories) FindShowtime(ctx context.Context, showtimeID string) (response.CatalogShowtime, error) {
	url := fmt.Sprintf("http://%s:%s/api/private/showtimes/%s", r.cfgCatalog.Host, r.cfgCatalog.Port, showtimeID)
	resp, err := r.httpClient.Get(url)
	if err != nil {
		return response.CatalogShowtime{}, errors.ServiceUnavailable("error call catalog service")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return response.CatalogShowtime{}, errors.NotFound("showtime not found")
	}
	if resp.StatusCode >= 500 {
		return response.CatalogShowtime{}, errors.ServiceUnavailable("catalog service unavailable")
	}
	if resp.StatusCode != 200 {
		return response.CatalogShowtime{}, errors.InternalServerError(fmt.Sprintf("unexpected catalog status %d", resp.StatusCode))
	}

	var showtime response.CatalogShowtime
	if err := json.NewDecoder(resp.Body).Decode(&showtime); err != nil {
		return response.CatalogShowtime{}, errors.InternalServerError("error parse catalog response")
	}

	return showtime, nil
}

package repositories_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	sqlxmock "github.com/zhashkevych/go-sqlxmock"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/entity"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/repositories"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
	log_internal "github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/log"
)

var (
	mock    sqlxmock.Sqlmock
	dbx     *sqlx.DB
	logMock *otelzap.Logger
)

func setup() {
	dbx, mock, _ = sqlxmock.Newx()
	logMock = log_internal.Setup()
}

var bookingColumns = []string{
	"id", "user_id", "showtime_id", "seat_ids", "amount", "currency", "status", "payment_ref", "hold_task_id", "created_at", "updated_at",
}

func TestFindBookingByID(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	UUID := uuid.New()

	testCases := []struct {
		name            string
		bookingID       string
		returnedError   error
		expectedError   error
		expectedBooking entity.Booking
	}{
		{
			name:      "booking found",
			bookingID: UUID.String(),
			expectedBooking: entity.Booking{
				ID:         UUID,
				UserID:     1,
				ShowtimeID: "st-1",
				SeatIDs:    pq.StringArray{"A1", "A2"},
				Amount:     200,
				Currency:   "USD",
				Status:     entity.BookingStatusAwaitingPayment,
			},
		},
		{
			name:          "booking not found",
			bookingID:     UUID.String(),
			returnedError: sql.ErrNoRows,
			expectedError: errors.NotFound("booking not found"),
		},
		{
			name:          "database error",
			bookingID:     UUID.String(),
			returnedError: sql.ErrConnDone,
			expectedError: errors.InternalServerError("error find booking by id"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query := mock.ExpectQuery(`SELECT \* FROM bookings WHERE id = \$1`).
				WithArgs(tc.bookingID)
			if tc.returnedError != nil {
				query.WillReturnError(tc.returnedError)
			} else {
				rows := sqlxmock.NewRows(bookingColumns).
					AddRow(tc.expectedBooking.ID.String(), tc.expectedBooking.UserID, tc.expectedBooking.ShowtimeID, "{A1,A2}", tc.expectedBooking.Amount, tc.expectedBooking.Currency, tc.expectedBooking.Status, nil, nil, time.Time{}, nil)
				query.WillReturnRows(rows)
			}

			booking, err := repo.FindBookingByID(context.Background(), tc.bookingID)

			assert.Equal(t, tc.expectedError, err)
			assert.Equal(t, tc.expectedBooking, booking)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInsertBooking(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	booking := entity.Booking{
		ID:         uuid.New(),
		UserID:     1,
		ShowtimeID: "st-1",
		SeatIDs:    pq.StringArray{"A1", "A2"},
		Amount:     200,
		Currency:   "USD",
		Status:     entity.BookingStatusPending,
		CreatedAt:  time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnResult(sqlxmock.NewResult(0, 1))

		err := repo.InsertBooking(context.Background(), &booking)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO bookings").
			WillReturnError(sql.ErrConnDone)

		err := repo.InsertBooking(context.Background(), &booking)

		assert.Equal(t, errors.InternalServerError("error insert booking"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	UUID := uuid.New()

	t.Run("legal transition", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \$1 FOR UPDATE`).
			WithArgs(UUID.String()).
			WillReturnRows(sqlxmock.NewRows([]string{"status"}).AddRow(entity.BookingStatusAwaitingPayment))
		mock.ExpectExec("UPDATE bookings SET status").
			WillReturnResult(sqlxmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.UpdateBookingStatus(context.Background(), UUID.String(), entity.BookingStatusConfirmed)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("terminal status does not move", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \$1 FOR UPDATE`).
			WithArgs(UUID.String()).
			WillReturnRows(sqlxmock.NewRows([]string{"status"}).AddRow(entity.BookingStatusConfirmed))
		mock.ExpectRollback()

		err := repo.UpdateBookingStatus(context.Background(), UUID.String(), entity.BookingStatusCancelled)

		assert.Error(t, err)
		assert.True(t, errors.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending cannot jump to confirmed", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \$1 FOR UPDATE`).
			WithArgs(UUID.String()).
			WillReturnRows(sqlxmock.NewRows([]string{"status"}).AddRow(entity.BookingStatusPending))
		mock.ExpectRollback()

		err := repo.UpdateBookingStatus(context.Background(), UUID.String(), entity.BookingStatusConfirmed)

		assert.Error(t, err)
		assert.True(t, errors.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("booking not found", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM bookings WHERE id = \$1 FOR UPDATE`).
			WithArgs(UUID.String()).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.UpdateBookingStatus(context.Background(), UUID.String(), entity.BookingStatusCancelled)

		assert.Equal(t, errors.NotFound("booking not found"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpsertPayment(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	payment := entity.Payment{
		BookingID:      uuid.New(),
		Amount:         200,
		Currency:       "USD",
		Status:         entity.PaymentStatusCreated,
		ProviderRef:    "PAY-1",
		IdempotencyKey: "capture-1",
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO payments").
			WillReturnResult(sqlxmock.NewResult(1, 1))

		err := repo.UpsertPayment(context.Background(), &payment)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindPaymentByBookingID(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	UUID := uuid.New()

	t.Run("payment found", func(t *testing.T) {
		rows := sqlxmock.NewRows([]string{"id", "booking_id", "amount", "currency", "status", "provider_ref", "idempotency_key", "created_at", "updated_at"}).
			AddRow(int64(1), UUID.String(), 200.0, "USD", entity.PaymentStatusCreated, "PAY-1", "capture-"+UUID.String(), time.Time{}, nil)
		mock.ExpectQuery(`SELECT \* FROM payments WHERE booking_id = \$1`).
			WithArgs(UUID.String()).
			WillReturnRows(rows)

		payment, err := repo.FindPaymentByBookingID(context.Background(), UUID.String())

		assert.NoError(t, err)
		assert.Equal(t, "capture-"+UUID.String(), payment.IdempotencyKey)
		assert.Equal(t, entity.PaymentStatusCreated, payment.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("payment not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM payments WHERE booking_id = \$1`).
			WithArgs(UUID.String()).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindPaymentByBookingID(context.Background(), UUID.String())

		assert.Equal(t, errors.NotFound("payment not found"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindIntentByToken(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	UUID := uuid.New()

	t.Run("intent found", func(t *testing.T) {
		rows := sqlxmock.NewRows([]string{"token", "booking_id", "showtime_id", "seat_ids", "user_id", "email", "created_at"}).
			AddRow("PAY-1", UUID.String(), "st-1", "{A1,A2}", int64(1), "test@test.com", time.Time{})
		mock.ExpectQuery(`SELECT \* FROM booking_intents WHERE token = \$1`).
			WithArgs("PAY-1").
			WillReturnRows(rows)

		intent, err := repo.FindIntentByToken(context.Background(), "PAY-1")

		assert.NoError(t, err)
		assert.Equal(t, UUID, intent.BookingID)
		assert.Equal(t, pq.StringArray{"A1", "A2"}, intent.SeatIDs)
		assert.Equal(t, int64(1), intent.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("intent not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM booking_intents WHERE token = \$1`).
			WithArgs("PAY-404").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindIntentByToken(context.Background(), "PAY-404")

		assert.Equal(t, errors.NotFound("booking intent not found"), err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPruneIntents(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM booking_intents").
			WillReturnResult(sqlxmock.NewResult(0, 2))

		pruned, err := repo.PruneIntents(context.Background(), 24*time.Hour)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), pruned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindStaleCancelledBookings(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	t.Run("success", func(t *testing.T) {
		staleID := uuid.New().String()
		rows := sqlxmock.NewRows([]string{"id"}).AddRow(staleID)
		mock.ExpectQuery("SELECT id FROM bookings").
			WithArgs(entity.BookingStatusCancelled, "86400 seconds").
			WillReturnRows(rows)

		ids, err := repo.FindStaleCancelledBookings(context.Background(), 24*time.Hour)

		assert.NoError(t, err)
		assert.Equal(t, []string{staleID}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id FROM bookings").
			WithArgs(entity.BookingStatusCancelled, "86400 seconds").
			WillReturnError(sql.ErrConnDone)

		_, err := repo.FindStaleCancelledBookings(context.Background(), 24*time.Hour)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteBooking(t *testing.T) {
	setup()
	repo := repositories.New(dbx, logMock, nil, nil, nil, nil, nil)

	UUID := uuid.New()

	t.Run("cancelled booking is deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM bookings").
			WithArgs(UUID.String(), entity.BookingStatusCancelled).
			WillReturnResult(sqlxmock.NewResult(0, 1))

		err := repo.DeleteBooking(context.Background(), UUID.String())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-cancelled booking is kept", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM bookings").
			WithArgs(UUID.String(), entity.BookingStatusCancelled).
			WillReturnResult(sqlxmock.NewResult(0, 0))

		err := repo.DeleteBooking(context.Background(), UUID.String())

		assert.Error(t, err)
		assert.True(t, errors.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

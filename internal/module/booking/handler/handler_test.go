package handler_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"github.com/valyala/fasthttp"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/handler"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/mocks"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/request"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/response"
	seatentity "github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/seat/models/entity"
	log_internal "github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/log"
)

var (
	h             *handler.BookingHandler
	ucm           *mocks.Usecase
	logMock       *otelzap.Logger
	app           *fiber.App
	validatorTest *validator.Validate
	p             message.Publisher
	asyncTask     *asynq.Task
)

type mockPublisher struct{}

// Close implements message.Publisher.
func (m *mockPublisher) Close() error {
	return nil
}

// Publish implements message.Publisher.
func (m *mockPublisher) Publish(topic string, messages ...*message.Message) error {
	return nil
}

func NewMockPublisher() message.Publisher {
	return &mockPublisher{}
}

func setup() {
	ucm = &mocks.Usecase{}
	logMock := log_internal.Setup()
	validatorTest = validator.New()
	p = NewMockPublisher()
	h = &handler.BookingHandler{
		Log:       logMock,
		Validator: validatorTest,
		Usecase:   ucm,
		Publish:   p,
	}
	app = fiber.New()
}

func teardown() {
	ucm = nil
	logMock = nil
	validatorTest = nil
	p = nil
	h = nil
	app = nil
}

func TestBookSeats(t *testing.T) {
	setup()
	defer teardown()
	t.Run("success", func(t *testing.T) {
		// mock data
		payload := request.BookSeats{
			ShowtimeID: "st-1",
			SeatIDs:    []string{"A1", "A2"},
		}

		jsonData, _ := json.Marshal(payload)

		httpReq := httptest.NewRequest("POST", "/api/v1/bookings", nil)
		httpReq.Header.Set("Content-Type", "application/json")

		ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
		ctx.Request().SetRequestURI("/api/v1/bookings")
		ctx.Request().Header.SetContentType("application/json")
		ctx.Request().Header.SetMethod("POST")
		ctx.Request().SetBody(jsonData)
		ctx.Locals("user_id", int64(1))
		ctx.Locals("email_user", "test@test.com")

		// mock usecase
		ucm.On("BookSeats", ctx.UserContext(), &payload, int64(1), "test@test.com").Return(response.BookingCreated{
			BookingID:   "00000000-0000-0000-0000-000000000000",
			ApprovalURL: "https://provider.test/approve/PAY-1",
		}, nil)

		// test
		err := h.BookSeats(ctx)

		// assertion
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusCreated, ctx.Response().StatusCode())
	})

	t.Run("invalid payload", func(t *testing.T) {
		jsonData, _ := json.Marshal(request.BookSeats{ShowtimeID: "st-1"})

		ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
		ctx.Request().SetRequestURI("/api/v1/bookings")
		ctx.Request().Header.SetContentType("application/json")
		ctx.Request().Header.SetMethod("POST")
		ctx.Request().SetBody(jsonData)
		ctx.Locals("user_id", int64(1))
		ctx.Locals("email_user", "test@test.com")

		err := h.BookSeats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, ctx.Response().StatusCode())
	})
}

func TestResumeBooking(t *testing.T) {
	setup()
	defer teardown()
	t.Run("success", func(t *testing.T) {
		// mock data
		payload := request.ResumeBooking{
			Token:         "PAY-1",
			ProviderToken: "PAY-1",
		}

		jsonData, _ := json.Marshal(payload)

		httpReq := httptest.NewRequest("POST", "/api/v1/bookings/resume", nil)
		httpReq.Header.Set("Content-Type", "application/json")

		ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
		ctx.Request().SetRequestURI("/api/v1/bookings/resume")
		ctx.Request().Header.SetContentType("application/json")
		ctx.Request().Header.SetMethod("POST")
		ctx.Request().SetBody(jsonData)
		ctx.Locals("user_id", int64(1))
		ctx.Locals("email_user", "test@test.com")

		// mock usecase
		ucm.On("ResumeBooking", ctx.UserContext(), &payload, int64(1)).Return(response.ResumeResult{
			BookingID: "00000000-0000-0000-0000-000000000000",
			Status:    response.ResumeStatusConfirmed,
		}, nil)

		// test
		err := h.ResumeBooking(ctx)

		// assertion
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, ctx.Response().StatusCode())
	})
}

func TestCancelBooking(t *testing.T) {
	setup()
	defer teardown()
	t.Run("success", func(t *testing.T) {
		// route params are not populated by AcquireCtx; drive the handler
		// through the app instead
		app.Delete("/api/v1/bookings/:id", func(c *fiber.Ctx) error {
			c.Locals("user_id", int64(1))
			return h.CancelBooking(c)
		})

		ucm.On("CancelBooking", context.Background(), "00000000-0000-0000-0000-000000000000", int64(1)).Return(nil)

		httpReq := httptest.NewRequest("DELETE", "/api/v1/bookings/00000000-0000-0000-0000-000000000000", nil)
		resp, err := app.Test(httpReq)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestShowBookings(t *testing.T) {
	setup()
	defer teardown()
	t.Run("success", func(t *testing.T) {
		// mock data
		httpReq := httptest.NewRequest("GET", "/api/v1/bookings", nil)
		httpReq.Header.Set("Content-Type", "application/json")

		ctx := app.AcquireCtx(&fasthttp.RequestCtx{})
		ctx.Request().SetRequestURI("/api/v1/bookings")
		ctx.Request().Header.SetContentType("application/json")
		ctx.Request().Header.SetMethod("GET")
		ctx.Locals("user_id", int64(1))

		// mock usecase
		ucm.On("ShowBookings", ctx.UserContext(), int64(1)).Return([]response.BookedSeats{}, nil)

		// test
		err := h.ShowBookings(ctx)

		// assertion
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, ctx.Response().StatusCode())
	})
}

func TestShowSeats(t *testing.T) {
	setup()
	defer teardown()
	t.Run("success", func(t *testing.T) {
		app.Get("/api/v1/showtimes/:id/seats", h.ShowSeats)

		ucm.On("ShowSeatStatuses", context.Background(), "st-1").Return([]seatentity.SeatStatus{
			{SeatID: "A1", Status: seatentity.SeatStatusAvailable},
		}, nil)

		httpReq := httptest.NewRequest("GET", "/api/v1/showtimes/st-1/seats", nil)
		resp, err := app.Test(httpReq)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestMaterializeSeatMap(t *testing.T) {
	setup()
	defer teardown()
	t.Run("success", func(t *testing.T) {
		payload := request.MaterializeSeatMap{
			SeatNumbers: []string{"A1", "A2", "B1", "B2"},
		}
		jsonData, _ := json.Marshal(payload)

		app.Post("/private/v1/showtimes/:id/seats", h.MaterializeSeatMap)

		ucm.On("MaterializeSeatMap", context.Background(), "st-1", []string{"A1", "A2", "B1", "B2"}).Return(nil)

		httpReq := httptest.NewRequest("POST", "/private/v1/showtimes/st-1/seats", bytes.NewReader(jsonData))
		httpReq.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(httpReq)

		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}

func TestConsumeReconciliationQueue(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		// mock data
		payload := request.ReconciliationEvent{
			BookingID:   "00000000-0000-0000-0000-000000000000",
			ProviderRef: "CAP-1",
			Reason:      "capture succeeded but seat confirm failed",
		}

		jsonData, _ := json.Marshal(payload)

		msg := message.NewMessage("123", jsonData)

		// mock usecase
		ucm.On("RecordReconciliation", ctx, &payload).Return(nil)

		// test
		err := h.ConsumeReconciliationQueue(msg)

		// assertion
		assert.NoError(t, err)
	})

	t.Run("malformed payload goes to poison queue", func(t *testing.T) {
		msg := message.NewMessage("124", []byte("{not json"))

		err := h.ConsumeReconciliationQueue(msg)

		assert.Error(t, err)
		ucm.AssertNotCalled(t, "RecordReconciliation", ctx, &request.ReconciliationEvent{})
	})
}

func TestHandleHoldExpired(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		// mock data
		payload := request.HoldExpiration{
			BookingID: "00000000-0000-0000-0000-000000000000",
		}

		// mock usecase
		ucm.On("ExpireBooking", ctx, &payload).Return(nil)
		asyncTask = asynq.NewTask("booking:hold_expired", []byte(`{"booking_id":"00000000-0000-0000-0000-000000000000"}`))

		// test
		err := h.HandleHoldExpired(ctx, asyncTask)

		// assertion
		assert.NoError(t, err)
	})
}

func TestHandleSweepHolds(t *testing.T) {
	setup()
	defer teardown()

	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		// mock usecase
		ucm.On("SweepExpiredHolds", ctx).Return(nil)
		asyncTask = asynq.NewTask("booking:sweep_holds", nil)

		// test
		err := h.HandleSweepHolds(ctx, asyncTask)

		// assertion
		assert.NoError(t, err)
	})
}

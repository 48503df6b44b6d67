package handler

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/models/request"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/usecases"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/helpers"
)

type BookingHandler struct {
	Log       *otelzap.Logger
	Validator *validator.Validate
	Usecase   usecases.Usecase
	Publish   message.Publisher
}

func (h *BookingHandler) BookSeats(ctx *fiber.Ctx) error {
	var req request.BookSeats
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	userID := ctx.Locals("user_id").(int64)
	emailUser := ctx.Locals("email_user").(string)

	// call usecase to book seats
	resp, err := h.Usecase.BookSeats(ctx.UserContext(), &req, userID, emailUser)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error book seats: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespCreated(ctx, h.Log, resp, "success book seats, complete the payment at the approval url")
}

func (h *BookingHandler) ResumeBooking(ctx *fiber.Ctx) error {
	var req request.ResumeBooking
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	userID := ctx.Locals("user_id").(int64)

	// call usecase to resume the parked booking
	resp, err := h.Usecase.ResumeBooking(ctx.UserContext(), &req, userID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error resume booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "booking resume processed")
}

func (h *BookingHandler) CancelBooking(ctx *fiber.Ctx) error {
	bookingID := ctx.Params("id")
	if bookingID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("missing booking id"))
	}

	userID := ctx.Locals("user_id").(int64)

	// call usecase to cancel booking
	if err := h.Usecase.CancelBooking(ctx.UserContext(), bookingID, userID); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error cancel booking: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success cancel booking")
}

func (h *BookingHandler) ShowBookings(ctx *fiber.Ctx) error {
	userID := ctx.Locals("user_id").(int64)

	// call usecase to show bookings
	resp, err := h.Usecase.ShowBookings(ctx.UserContext(), userID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error show bookings: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success show bookings")
}

func (h *BookingHandler) ShowSeats(ctx *fiber.Ctx) error {
	showtimeID := ctx.Params("id")
	if showtimeID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("missing showtime id"))
	}

	resp, err := h.Usecase.ShowSeatStatuses(ctx.UserContext(), showtimeID)
	if err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error show seats: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, resp, "success show seats")
}

func (h *BookingHandler) MaterializeSeatMap(ctx *fiber.Ctx) error {
	showtimeID := ctx.Params("id")
	if showtimeID == "" {
		return helpers.RespError(ctx, h.Log, errors.BadRequest("missing showtime id"))
	}

	var req request.MaterializeSeatMap
	if err := ctx.BodyParser(&req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error parse request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest("error parse request"))
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error validate request: %v", err))
		return helpers.RespError(ctx, h.Log, errors.BadRequest(err.Error()))
	}

	if err := h.Usecase.MaterializeSeatMap(ctx.UserContext(), showtimeID, req.SeatNumbers); err != nil {
		h.Log.Ctx(ctx.UserContext()).Error(fmt.Sprintf("error materialize seat map: %v", err))
		return helpers.RespError(ctx, h.Log, err)
	}

	return helpers.RespSuccess(ctx, h.Log, nil, "success materialize seat map")
}

// ConsumeReconciliationQueue persists reconciliation events published by the
// orchestrator. Malformed payloads go to the poison queue instead of blocking
// the subscription.
func (h *BookingHandler) ConsumeReconciliationQueue(msg *message.Message) error {
	msg.Ack() // acknowledge message
	var req request.ReconciliationEvent
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error unmarshal message: %v", err))
		h.publishPoisoned(msg, usecases.TopicBookingReconciliation, err)
		return err
	}

	ctx := context.Background()

	if err := h.Usecase.RecordReconciliation(ctx, &req); err != nil {
		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error record reconciliation: %v", err))
		h.publishPoisoned(msg, usecases.TopicBookingReconciliation, err)
		return err
	}

	return nil
}

func (h *BookingHandler) publishPoisoned(msg *message.Message, topicTarget string, cause error) {
	reqPoisoned := request.PoisonedQueue{
		TopicTarget: topicTarget,
		ErrorMsg:    cause.Error(),
		Payload:     msg.Payload,
	}

	jsonPayload, _ := json.Marshal(reqPoisoned)

	if err := h.Publish.Publish("poisoned_queue", message.NewMessage(watermill.NewUUID(), jsonPayload)); err != nil {
		h.Log.Ctx(msg.Context()).Error(fmt.Sprintf("error publish to poison queue: %v", err))
	}
}

// HandleHoldExpired is the delayed-task target scheduled when a hold is taken.
func (h *BookingHandler) HandleHoldExpired(ctx context.Context, t *asynq.Task) error {
	var req request.HoldExpiration
	if err := json.Unmarshal(t.Payload(), &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error unmarshal payload: %v", err))
		return err
	}

	if err := h.Validator.Struct(req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error validate payload: %v", err))
		return err
	}

	// call usecase to expire the booking
	if err := h.Usecase.ExpireBooking(ctx, &req); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error expire booking: %v", err))
		return err
	}

	return nil
}

// HandleSweepHolds is the periodic safety-net sweep.
func (h *BookingHandler) HandleSweepHolds(ctx context.Context, t *asynq.Task) error {
	if err := h.Usecase.SweepExpiredHolds(ctx); err != nil {
		h.Log.Ctx(ctx).Error(fmt.Sprintf("error sweep expired holds: %v", err))
		return err
	}
	return nil
}

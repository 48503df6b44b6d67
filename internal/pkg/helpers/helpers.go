package helpers

import (
	goerrors "errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/errors"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success          bool     `json:"success"`
	Reason           string   `json:"reason"`
	Message          string   `json:"message"`
	ConflictingSeats []string `json:"conflicting_seats,omitempty"`
}

func RespSuccess(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	return ctx.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func RespCreated(ctx *fiber.Ctx, log *otelzap.Logger, data interface{}, message string) error {
	return ctx.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func RespError(ctx *fiber.Ctx, log *otelzap.Logger, err error) error {
	var seatsErr *errors.SeatsUnavailableError
	if goerrors.As(err, &seatsErr) {
		return ctx.Status(seatsErr.Code).JSON(ErrorResponse{
			Success:          false,
			Reason:           seatsErr.Reason,
			Message:          seatsErr.Message,
			ConflictingSeats: seatsErr.ConflictingSeats,
		})
	}

	var baseErr *errors.BaseError
	if goerrors.As(err, &baseErr) {
		return ctx.Status(baseErr.Code).JSON(ErrorResponse{
			Success: false,
			Reason:  baseErr.Reason,
			Message: baseErr.Message,
		})
	}

	return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Success: false,
		Reason:  "internal",
		Message: err.Error(),
	})
}

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/module/booking/handler"
	"github.com/ChickenSoup269/Zero-Movie-sub001/internal/pkg/middleware"
)

func Initialize(app *fiber.App, handlerBooking *handler.BookingHandler, m *middleware.Middleware) *fiber.App {

	// health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).SendString("OK")
	})

	Api := app.Group("/api")

	// public routes
	v1 := Api.Group("/v1")
	v1.Get("/showtimes/:id/seats", handlerBooking.ShowSeats)
	v1.Get("/bookings", m.ValidateToken, handlerBooking.ShowBookings)
	v1.Post("/bookings", m.ValidateToken, handlerBooking.BookSeats)
	v1.Post("/bookings/resume", m.ValidateToken, handlerBooking.ResumeBooking)
	v1.Delete("/bookings/:id", m.ValidateToken, handlerBooking.CancelBooking)

	private := Api.Group("/private")
	private.Post("/showtimes/:id/seats", handlerBooking.MaterializeSeatMap)

	return app

}

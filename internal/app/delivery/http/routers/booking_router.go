package routers

import (
	"leadbook-service/internal/app/services/core/bookings"

	"github.com/go-chi/chi/v5"
)

func attachBookingRoutes(router chi.Router, ctrl *bookings.BookingController) {
	router.Post("/", ctrl.CreateBooking)
	router.Get("/{booking_id}", ctrl.FindBookingByID)
	router.Delete("/{booking_id}", ctrl.CancelBookingByID)
}

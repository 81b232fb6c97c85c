package routers

import (
	"leadbook-service/internal/app/services/core/bookings"
	"leadbook-service/internal/app/services/core/resources"

	"github.com/go-chi/chi/v5"
)

func attachResourceRoutes(router chi.Router, ctrl *resources.ResourceController, bookingCtrl *bookings.BookingController) {
	router.Post("/", ctrl.CreateResource)
	router.Get("/", ctrl.FindAllResources)
	router.Get("/{resource_id}", ctrl.FindResourceByID)
	router.Put("/{resource_id}", ctrl.UpdateResourceByID)
	router.Delete("/{resource_id}", ctrl.DeleteResourceByID)

	// GET /resources/{resource_id}/availability?date=YYYY-MM-DD
	router.Get("/{resource_id}/availability", bookingCtrl.GetAvailability)
}

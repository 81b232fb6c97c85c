package routers

import (
	"leadbook-service/internal/app/services/core/bookings"
	"leadbook-service/internal/app/services/core/leads"

	"github.com/go-chi/chi/v5"
)

func attachLeadRoutes(router chi.Router, ctrl *leads.LeadController, bookingCtrl *bookings.BookingController) {
	router.Post("/", ctrl.CreateLead)
	router.Get("/", ctrl.FindAllLeads)
	router.Get("/{lead_id}", ctrl.FindLeadByID)
	router.Patch("/{lead_id}/status", ctrl.UpdateLeadStatus)
	router.Get("/{lead_id}/calls", ctrl.FindCallLogsByLeadID)
	router.Get("/{lead_id}/bookings", bookingCtrl.FindBookingsByLeadID)
}

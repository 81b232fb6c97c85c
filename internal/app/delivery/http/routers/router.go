package routers

import (
	"fmt"
	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/delivery/http/middlewares"
	"leadbook-service/internal/app/services/core/agentcalls"
	"leadbook-service/internal/app/services/core/bookings"
	"leadbook-service/internal/app/services/core/leads"
	"leadbook-service/internal/app/services/core/resources"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/metrics"
	"leadbook-service/internal/pkg/utils"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	resourceController *resources.ResourceController,
	bookingController *bookings.BookingController,
	leadController *leads.LeadController,
	agentCallController *agentcalls.AgentCallController,
) {

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constvars.HeaderXRequestID, constvars.HeaderXTenantID, "x-api-key"},
		ExposedHeaders:   []string{"Link", constvars.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	// Rate limiting middleware using httprate
	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, nil)
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	endpointPrefix := fmt.Sprintf("/%s", internalConfig.App.EndpointPrefix)
	versionPrefix := fmt.Sprintf("/%s", internalConfig.App.Version)

	router.Route(endpointPrefix, func(r chi.Router) {
		r.Route(versionPrefix, func(r chi.Router) {
			r.Route("/resources", func(r chi.Router) {
				r.Use(middlewares.RequireTenant)
				attachResourceRoutes(r, resourceController, bookingController)
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Use(middlewares.RequireTenant)
				attachBookingRoutes(r, bookingController)
			})

			r.Route("/leads", func(r chi.Router) {
				r.Use(middlewares.RequireTenant)
				attachLeadRoutes(r, leadController, bookingController)
			})

			r.Route("/webhooks", func(r chi.Router) {
				attachWebhookRoutes(r, middlewares, agentCallController)
			})
		})
	})
}

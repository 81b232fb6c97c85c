package routers

import (
	"leadbook-service/internal/app/delivery/http/middlewares"
	"leadbook-service/internal/app/services/core/agentcalls"

	"github.com/go-chi/chi/v5"
)

func attachWebhookRoutes(router chi.Router, middlewares *middlewares.Middlewares, ctrl *agentcalls.AgentCallController) {
	// POST /webhooks/call-completed
	router.With(middlewares.RequireAPIKey).Post("/call-completed", ctrl.HandleCallCompleted)
}

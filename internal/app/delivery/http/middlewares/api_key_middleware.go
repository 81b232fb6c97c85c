package middlewares

import (
	"context"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/exceptions"
	"leadbook-service/internal/pkg/utils"
	"net/http"

	"go.uber.org/zap"
)

const HeaderAPIKey = "x-api-key"

// RequireAPIKey gates the webhook and admin routes behind the shared API
// key. The voice-agent platform signs its traffic upstream; this is the only
// in-service gate.
func (m *Middlewares) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(HeaderAPIKey)

		if apiKey == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAPIKeyRequired(nil))
			return
		}
		if apiKey != m.InternalConfig.App.APIKey {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrInvalidAPIKey(nil))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_API_KEY_AUTH_KEY, true)

		m.Log.Info("API key authentication successful",
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

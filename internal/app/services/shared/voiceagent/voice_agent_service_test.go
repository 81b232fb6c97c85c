package voiceagent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadbook-service/internal/pkg/dto/requests"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testService(dialURL string) *voiceAgentService {
	return &voiceAgentService{
		DialURL: dialURL,
		APIKey:  "secret",
		Client:  &http.Client{Timeout: 5 * time.Second},
		Log:     zap.NewNop(),
	}
}

func TestPlaceCall(t *testing.T) {
	t.Run("posts the dial request with the api key", func(t *testing.T) {
		var got requests.PlaceCall
		var gotAPIKey string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAPIKey = r.Header.Get(headerAPIKey)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer server.Close()

		err := testService(server.URL).PlaceCall(context.Background(), &requests.PlaceCall{
			TaskID:        "task-1",
			TenantID:      "t1",
			LeadID:        "lead-1",
			PhoneNumber:   "+5511999990000",
			AttemptNumber: 2,
		})
		require.NoError(t, err)

		assert.Equal(t, "secret", gotAPIKey)
		assert.Equal(t, "task-1", got.TaskID)
		assert.Equal(t, "+5511999990000", got.PhoneNumber)
		assert.Equal(t, 2, got.AttemptNumber)
	})

	t.Run("a non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		err := testService(server.URL).PlaceCall(context.Background(), &requests.PlaceCall{LeadID: "lead-1"})
		require.Error(t, err)
	})

	t.Run("an unreachable endpoint is an error", func(t *testing.T) {
		err := testService("http://127.0.0.1:1").PlaceCall(context.Background(), &requests.PlaceCall{LeadID: "lead-1"})
		require.Error(t, err)
	})
}

package voiceagent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const headerAPIKey = "x-api-key"

type voiceAgentService struct {
	DialURL string
	APIKey  string
	Client  *http.Client
	Log     *zap.Logger
}

var (
	voiceAgentServiceInstance VoiceAgentService
	onceVoiceAgentService     sync.Once
)

func NewVoiceAgentService(internalConfig *config.InternalConfig, logger *zap.Logger) VoiceAgentService {
	onceVoiceAgentService.Do(func() {
		timeout := time.Duration(internalConfig.VoiceAgent.RequestTimeoutInSeconds) * time.Second
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		voiceAgentServiceInstance = &voiceAgentService{
			DialURL: internalConfig.VoiceAgent.DialURL,
			APIKey:  internalConfig.VoiceAgent.APIKey,
			Client:  &http.Client{Timeout: timeout},
			Log:     logger,
		}
	})
	return voiceAgentServiceInstance
}

func (s *voiceAgentService) PlaceCall(ctx context.Context, request *requests.PlaceCall) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("voiceAgentService.PlaceCall called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, request.LeadID),
		zap.Int(constvars.LoggingAttemptNumberKey, request.AttemptNumber),
	)

	body, err := json.Marshal(request)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, s.DialURL, bytes.NewReader(body))
	if err != nil {
		return exceptions.ErrVoiceAgentDial(err)
	}
	httpRequest.Header.Set("Content-Type", constvars.MIMEApplicationJSON)
	if s.APIKey != "" {
		httpRequest.Header.Set(headerAPIKey, s.APIKey)
	}

	response, err := s.Client.Do(httpRequest)
	if err != nil {
		return exceptions.ErrVoiceAgentDial(err)
	}
	defer func() {
		io.Copy(io.Discard, response.Body)
		response.Body.Close()
	}()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return exceptions.ErrVoiceAgentDial(fmt.Errorf("dial endpoint returned status %d", response.StatusCode))
	}
	return nil
}

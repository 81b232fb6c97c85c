package voiceagent

import (
	"context"
	"leadbook-service/internal/pkg/dto/requests"
)

type VoiceAgentService interface {
	PlaceCall(ctx context.Context, request *requests.PlaceCall) error
}

package contracts

import (
	"context"

	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
)

type AgentCallUsecase interface {
	// HandleCallCompleted ingests the outcome of a finished outbound call:
	// it classifies the disconnect, archives the recording, and either
	// schedules the next attempt or switches the lead to another channel.
	HandleCallCompleted(ctx context.Context, request *requests.CallCompleted) (*responses.RetryDecision, error)
}

package agentcalls

import (
	"context"
	"encoding/json"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/exceptions"
	"leadbook-service/internal/pkg/utils"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type AgentCallController struct {
	Log              *zap.Logger
	AgentCallUsecase contracts.AgentCallUsecase
}

func NewAgentCallController(logger *zap.Logger, agentCallUsecase contracts.AgentCallUsecase) *AgentCallController {
	return &AgentCallController{
		Log:              logger,
		AgentCallUsecase: agentCallUsecase,
	}
}

func (ctrl *AgentCallController) HandleCallCompleted(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.CallCompleted)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	// Recording download rides on this context, so the budget is wider than
	// the usual controller timeout.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := ctrl.AgentCallUsecase.HandleCallCompleted(ctx, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CallResultIngestedOK, response)
}

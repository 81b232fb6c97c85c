package leads

import (
	"context"
	"encoding/json"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/exceptions"
	"leadbook-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LeadController struct {
	Log         *zap.Logger
	LeadUsecase contracts.LeadUsecase
}

func NewLeadController(logger *zap.Logger, leadUsecase contracts.LeadUsecase) *LeadController {
	return &LeadController{
		Log:         logger,
		LeadUsecase: leadUsecase,
	}
}

func (ctrl *LeadController) CreateLead(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.CreateLead)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeCreateLeadRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.LeadUsecase.CreateLead(ctx, request.TenantID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.LeadCreatedSuccess, response)
}

func (ctrl *LeadController) FindLeadByID(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, constvars.URLParamLeadID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.LeadUsecase.FindLeadByID(ctx, tenantID, leadID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LeadsGetSuccess, response)
}

func (ctrl *LeadController) FindAllLeads(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	page, _ := strconv.Atoi(r.URL.Query().Get(constvars.URLQueryParamPage))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get(constvars.URLQueryParamPageSize))
	queryParams := &requests.QueryParams{
		Page:     page,
		PageSize: pageSize,
		Status:   r.URL.Query().Get(constvars.URLQueryParamStatus),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, total, err := ctrl.LeadUsecase.FindAllLeads(ctx, tenantID, queryParams)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(int(total), queryParams.Page, queryParams.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.LeadsGetSuccess, pagination, response)
}

func (ctrl *LeadController) FindCallLogsByLeadID(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, constvars.URLParamLeadID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.LeadUsecase.FindCallLogsByLeadID(ctx, tenantID, leadID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CallLogsGetSuccess, response)
}

func (ctrl *LeadController) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, constvars.URLParamLeadID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	request := new(requests.UpdateLeadStatus)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.LeadUsecase.UpdateLeadStatus(ctx, tenantID, leadID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.LeadUpdatedSuccess, response)
}

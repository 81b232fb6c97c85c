package resources

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

type ResourceController struct {
	Log             *zap.Logger
	ResourceUsecase contracts.ResourceUsecase
}

func NewResourceController(logger *zap.Logger, resourceUsecase contracts.ResourceUsecase) *ResourceController {
	return &ResourceController{
		Log:             logger,
		ResourceUsecase: resourceUsecase,
	}
}

func (ctrl *ResourceController) CreateResource(w http.ResponseWriter, r *http.Request) {
	// Bind body to request
	request := new(requests.CreateResource)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeCreateResourceRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ResourceUsecase.CreateResource(ctx, request.TenantID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.ResourceCreatedSuccess, response)
}

func (ctrl *ResourceController) FindResourceByID(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.ResourceUsecase.FindResourceByID(ctx, tenantID, resourceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourceGetSuccess, response)
}

func (ctrl *ResourceController) FindAllResources(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	page, _ := strconv.Atoi(r.URL.Query().Get(constvars.URLQueryParamPage))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get(constvars.URLQueryParamPageSize))
	queryParams := &requests.QueryParams{
		Page:     page,
		PageSize: pageSize,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, total, err := ctrl.ResourceUsecase.FindAllResources(ctx, tenantID, queryParams)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	pagination := utils.BuildPaginationResponse(int(total), queryParams.Page, queryParams.PageSize, r.URL.Path)
	utils.BuildSuccessResponseWithPagination(w, constvars.StatusOK, constvars.ResourceGetSuccess, pagination, response)
}

func (ctrl *ResourceController) UpdateResourceByID(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	request := new(requests.UpdateResource)
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

	response, err := ctrl.ResourceUsecase.UpdateResourceByID(ctx, tenantID, resourceID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourceUpdatedSuccess, response)
}

func (ctrl *ResourceController) DeleteResourceByID(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := ctrl.ResourceUsecase.DeleteResourceByID(ctx, tenantID, resourceID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResourceDeletedSuccess, nil)
}

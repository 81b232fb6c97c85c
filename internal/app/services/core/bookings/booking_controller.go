package bookings

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

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingController struct {
	Log            *zap.Logger
	BookingUsecase contracts.BookingUsecase
}

func NewBookingController(logger *zap.Logger, bookingUsecase contracts.BookingUsecase) *BookingController {
	return &BookingController{
		Log:            logger,
		BookingUsecase: bookingUsecase,
	}
}

// GetAvailability answers GET /resources/{resource_id}/availability?date=...
func (ctrl *BookingController) GetAvailability(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, constvars.URLParamResourceID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)
	requestedDate := r.URL.Query().Get(constvars.URLQueryParamDate)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.BookingUsecase.GetAvailability(ctx, tenantID, resourceID, requestedDate)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AvailabilityGetSuccess, response)
}

func (ctrl *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	// Bind body to request
	request := new(requests.CreateBooking)
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseJSON(err))
		return
	}

	utils.SanitizeCreateBookingRequest(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.BookingUsecase.CreateBooking(ctx, tenantID, request)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.BookingCreatedSuccess, response)
}

func (ctrl *BookingController) FindBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.BookingUsecase.FindBookingByID(ctx, tenantID, bookingID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BookingsGetSuccess, response)
}

func (ctrl *BookingController) FindBookingsByLeadID(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, constvars.URLParamLeadID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := ctrl.BookingUsecase.FindBookingsByLeadID(ctx, tenantID, leadID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BookingsGetSuccess, response)
}

func (ctrl *BookingController) CancelBookingByID(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, constvars.URLParamBookingID)
	tenantID, _ := r.Context().Value(constvars.CONTEXT_TENANT_ID_KEY).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := ctrl.BookingUsecase.CancelBookingByID(ctx, tenantID, bookingID)
	if err != nil {
		if err == context.DeadlineExceeded {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrServerDeadlineExceeded(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.BookingCancelSuccess, nil)
}

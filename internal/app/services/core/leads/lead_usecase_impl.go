package leads

import (
	"context"
	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
	"leadbook-service/internal/pkg/exceptions"
	"sync"
	"time"

	"go.uber.org/zap"
)

type leadUsecase struct {
	LeadRepository contracts.LeadRepository
	Storage        contracts.Storage
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

var (
	leadUsecaseInstance contracts.LeadUsecase
	onceLeadUsecase     sync.Once
)

func NewLeadUsecase(
	leadMongoRepository contracts.LeadRepository,
	storage contracts.Storage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.LeadUsecase {
	onceLeadUsecase.Do(func() {
		leadUsecaseInstance = &leadUsecase{
			LeadRepository: leadMongoRepository,
			Storage:        storage,
			InternalConfig: internalConfig,
			Log:            logger,
		}
	})
	return leadUsecaseInstance
}

func (uc *leadUsecase) CreateLead(ctx context.Context, tenantID string, request *requests.CreateLead) (*responses.Lead, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("leadUsecase.CreateLead called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTenantIDKey, tenantID),
	)

	now := time.Now().UTC()
	leadModel := &models.Lead{
		TenantID: tenantID,
		Name:     request.Name,
		Phone:    request.Phone,
		Source:   request.Source,
		Status:   constvars.LeadStatusNew,
		Notes:    request.Notes,
	}
	leadModel.CreatedAt = now
	leadModel.UpdatedAt = now

	leadID, err := uc.LeadRepository.CreateLead(ctx, leadModel)
	if err != nil {
		uc.Log.Error("leadUsecase.CreateLead error inserting lead",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	leadModel.ID = leadID

	return buildLeadResponse(leadModel), nil
}

func (uc *leadUsecase) FindLeadByID(ctx context.Context, tenantID, leadID string) (*responses.Lead, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("leadUsecase.FindLeadByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, leadID),
	)

	leadModel, err := uc.LeadRepository.FindLeadByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	if leadModel == nil {
		return nil, exceptions.ErrLeadNotFound(nil)
	}
	return buildLeadResponse(leadModel), nil
}

func (uc *leadUsecase) FindAllLeads(ctx context.Context, tenantID string, query *requests.QueryParams) ([]responses.Lead, int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("leadUsecase.FindAllLeads called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTenantIDKey, tenantID),
	)

	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	leadModels, total, err := uc.LeadRepository.FindAllLeads(ctx, tenantID, query.Status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	leadResponses := make([]responses.Lead, 0, len(leadModels))
	for i := range leadModels {
		leadResponses = append(leadResponses, *buildLeadResponse(&leadModels[i]))
	}
	return leadResponses, total, nil
}

func (uc *leadUsecase) UpdateLeadStatus(ctx context.Context, tenantID, leadID string, request *requests.UpdateLeadStatus) (*responses.Lead, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("leadUsecase.UpdateLeadStatus called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, leadID),
	)

	leadModel, err := uc.LeadRepository.FindLeadByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	if leadModel == nil {
		return nil, exceptions.ErrLeadNotFound(nil)
	}

	leadModel.Status = request.Status
	if request.Notes != "" {
		leadModel.Notes = request.Notes
	}
	// Operator-driven transitions take the lead out of the retry pipeline;
	// only the webhook path re-arms nextRetryAt.
	if request.Status != constvars.LeadStatusRetryQueued {
		leadModel.NextRetryAt = nil
		leadModel.NextRetryLocal = ""
	}
	leadModel.UpdatedAt = time.Now().UTC()

	if err := uc.LeadRepository.UpdateLead(ctx, leadModel); err != nil {
		return nil, err
	}
	return buildLeadResponse(leadModel), nil
}

func (uc *leadUsecase) FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]responses.CallLog, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("leadUsecase.FindCallLogsByLeadID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, leadID),
	)

	leadModel, err := uc.LeadRepository.FindLeadByID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}
	if leadModel == nil {
		return nil, exceptions.ErrLeadNotFound(nil)
	}

	callLogs, err := uc.LeadRepository.FindCallLogsByLeadID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}

	expiry := time.Duration(uc.InternalConfig.Minio.PreSignedUrlObjectExpiryTimeInHours) * time.Hour
	callLogResponses := make([]responses.CallLog, 0, len(callLogs))
	for i := range callLogs {
		callLog := callLogs[i]
		entry := responses.CallLog{
			ID:              callLog.ID,
			CallID:          callLog.CallID,
			AttemptNumber:   callLog.AttemptNumber,
			Outcome:         callLog.Outcome,
			DurationSeconds: callLog.DurationSeconds,
			CompletedAt:     callLog.CompletedAt.UTC().Format(time.RFC3339),
		}
		if callLog.RecordingObject != "" {
			// The recording link is a convenience; a presign failure must not
			// hide the timeline.
			url, err := uc.Storage.GetObjectUrlWithExpiryTime(ctx, uc.InternalConfig.Minio.RecordingBucketName, callLog.RecordingObject, expiry)
			if err != nil {
				uc.Log.Error("leadUsecase.FindCallLogsByLeadID error presigning recording",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.String(constvars.LoggingLeadIDKey, leadID),
					zap.Error(err),
				)
			} else {
				entry.RecordingURL = url
			}
		}
		callLogResponses = append(callLogResponses, entry)
	}
	return callLogResponses, nil
}

func buildLeadResponse(leadModel *models.Lead) *responses.Lead {
	return &responses.Lead{
		ID:             leadModel.ID,
		TenantID:       leadModel.TenantID,
		Name:           leadModel.Name,
		Phone:          leadModel.Phone,
		Status:         leadModel.Status,
		AttemptCount:   leadModel.AttemptCount,
		NextRetryLocal: leadModel.NextRetryLocal,
		LastOutcome:    leadModel.LastOutcome,
	}
}

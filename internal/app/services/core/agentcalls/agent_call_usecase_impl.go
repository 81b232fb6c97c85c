package agentcalls

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/app/services/core/outreach"
	"leadbook-service/internal/app/services/shared/whatsapp"
	"leadbook-service/internal/pkg/civiltime"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
	"leadbook-service/internal/pkg/exceptions"
	"leadbook-service/internal/pkg/metrics"
	"leadbook-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const switchedChannelMessage = "Hi! We tried reaching you by phone a few times without luck. Reply here and we will help you schedule your appointment."

type agentCallUsecase struct {
	LeadRepository    contracts.LeadRepository
	BookingRepository contracts.BookingRepository
	Storage           contracts.Storage
	WhatsAppService   whatsapp.WhatsAppService
	Scheduler         *outreach.RetryScheduler
	InternalConfig    *config.InternalConfig
	Log               *zap.Logger
	httpClient        *http.Client
	now               func() time.Time
}

var (
	agentCallUsecaseInstance contracts.AgentCallUsecase
	onceAgentCallUsecase     sync.Once
)

func NewAgentCallUsecase(
	leadMongoRepository contracts.LeadRepository,
	bookingMongoRepository contracts.BookingRepository,
	storage contracts.Storage,
	whatsAppService whatsapp.WhatsAppService,
	scheduler *outreach.RetryScheduler,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.AgentCallUsecase {
	onceAgentCallUsecase.Do(func() {
		agentCallUsecaseInstance = &agentCallUsecase{
			LeadRepository:    leadMongoRepository,
			BookingRepository: bookingMongoRepository,
			Storage:           storage,
			WhatsAppService:   whatsAppService,
			Scheduler:         scheduler,
			InternalConfig:    internalConfig,
			Log:               logger,
			httpClient: &http.Client{
				Timeout: time.Duration(internalConfig.Minio.RecordingDownloadTimeoutInSeconds) * time.Second,
			},
			now: time.Now,
		}
	})
	return agentCallUsecaseInstance
}

func (uc *agentCallUsecase) HandleCallCompleted(ctx context.Context, request *requests.CallCompleted) (*responses.RetryDecision, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("agentCallUsecase.HandleCallCompleted called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCallIDKey, request.CallID),
		zap.String(constvars.LoggingLeadIDKey, request.LeadID),
	)

	leadModel, err := uc.LeadRepository.FindLeadByID(ctx, request.TenantID, request.LeadID)
	if err != nil {
		return nil, err
	}
	if leadModel == nil {
		return nil, exceptions.ErrLeadNotFound(nil)
	}

	completedAt, err := time.Parse(time.RFC3339, request.CompletedAt)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}

	loc, err := civiltime.Location(uc.InternalConfig.App.Timezone)
	if err != nil {
		if errors.Is(err, civiltime.ErrUnknownTimezone) {
			return nil, exceptions.ErrUnknownTimezone(err)
		}
		return nil, exceptions.ErrCannotParseDate(err)
	}

	outcome := ClassifyOutcome(request)
	metrics.CallResultsIngested.WithLabelValues(outcome).Inc()
	attemptNumber := leadModel.AttemptCount + 1

	// Archival failures must not lose the scheduling decision.
	recordingObject := uc.archiveRecording(ctx, request)

	nowUTC := uc.now().UTC()
	callLogModel := &models.CallLog{
		TenantID:        request.TenantID,
		LeadID:          request.LeadID,
		CallID:          request.CallID,
		AttemptNumber:   attemptNumber,
		Outcome:         outcome,
		DurationSeconds: request.DurationSeconds,
		RecordingObject: recordingObject,
		CompletedAt:     completedAt,
	}
	callLogModel.CreatedAt = nowUTC
	callLogModel.UpdatedAt = nowUTC
	if _, err := uc.LeadRepository.CreateCallLog(ctx, callLogModel); err != nil {
		return nil, err
	}

	nearest, err := uc.nearestAppointment(ctx, request.TenantID, request.LeadID, completedAt)
	if err != nil {
		return nil, err
	}

	result := uc.Scheduler.NextAttempt(outreach.NextAttemptInput{
		AttemptNumber:      attemptNumber,
		Outcome:            outcome,
		NearestAppointment: nearest,
		Now:                completedAt,
		Location:           loc,
	})
	if !result.Terminal && wantsSameTimeTomorrow(request.UserRequested) {
		result = uc.Scheduler.NextSameTimeNextBusinessDay(completedAt, loc)
	}

	leadModel.AttemptCount = attemptNumber
	leadModel.LastOutcome = outcome
	leadModel.UpdatedAt = nowUTC

	if result.Terminal {
		leadModel.Status = constvars.LeadStatusSwitched
		leadModel.NextRetryAt = nil
		leadModel.NextRetryLocal = ""
	} else {
		nextRetryAt := result.NextRetryAt
		leadModel.Status = constvars.LeadStatusRetryQueued
		leadModel.NextRetryAt = &nextRetryAt
		leadModel.NextRetryLocal = result.NextRetryLocal
	}

	if err := uc.LeadRepository.UpdateLead(ctx, leadModel); err != nil {
		return nil, err
	}

	if result.Terminal {
		// Best-effort handoff to the messaging channel; the queue has its
		// own redelivery.
		err := uc.WhatsAppService.SendWhatsAppMessage(ctx, &requests.WhatsAppMessage{
			To:      leadModel.Phone,
			Message: switchedChannelMessage,
		})
		if err != nil {
			uc.Log.Error("agentCallUsecase.HandleCallCompleted error publishing channel-switch message",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingLeadIDKey, request.LeadID),
				zap.Error(err),
			)
		}
		uc.Log.Info("agentCallUsecase.HandleCallCompleted lead switched channel",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingLeadIDKey, request.LeadID),
			zap.Int(constvars.LoggingAttemptNumberKey, attemptNumber),
		)
		return &responses.RetryDecision{Terminal: true}, nil
	}

	uc.Log.Info("agentCallUsecase.HandleCallCompleted retry scheduled",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, request.LeadID),
		zap.String(constvars.LoggingOutcomeKey, outcome),
		zap.String(constvars.LoggingNextRetryAtKey, result.NextRetryLocal),
	)
	return &responses.RetryDecision{
		Terminal:    false,
		NextRetryAt: result.NextRetryLocal,
	}, nil
}

// nearestAppointment looks up the lead's closest confirmed booking at or
// after the call, so the scheduler can keep the retry away from it.
func (uc *agentCallUsecase) nearestAppointment(ctx context.Context, tenantID, leadID string, after time.Time) (*time.Time, error) {
	bookingModel, err := uc.BookingRepository.FindNearestBookingByLead(ctx, tenantID, leadID, after)
	if err != nil {
		return nil, err
	}
	if bookingModel == nil {
		return nil, nil
	}
	startAt := bookingModel.StartAt
	return &startAt, nil
}

// archiveRecording downloads the platform recording and stores it in the
// recording bucket. Returns the object name, or "" when there is nothing to
// archive or the archival failed.
func (uc *agentCallUsecase) archiveRecording(ctx context.Context, request *requests.CallCompleted) string {
	if request.RecordingURL == "" {
		return ""
	}
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, request.RecordingURL, nil)
	if err != nil {
		uc.Log.Error("agentCallUsecase.archiveRecording error building download request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return ""
	}

	httpResponse, err := uc.httpClient.Do(httpRequest)
	if err != nil {
		uc.Log.Error("agentCallUsecase.archiveRecording error downloading recording",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(exceptions.ErrStorageDownload(err)),
		)
		return ""
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		uc.Log.Error("agentCallUsecase.archiveRecording unexpected download status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int(constvars.LoggingStatusCodeKey, httpResponse.StatusCode),
		)
		return ""
	}

	maxBytes := uc.InternalConfig.Minio.RecordingMaxSizeInMB * 1024 * 1024
	var buffer bytes.Buffer
	written, err := io.Copy(&buffer, io.LimitReader(httpResponse.Body, maxBytes+1))
	if err != nil {
		uc.Log.Error("agentCallUsecase.archiveRecording error reading recording body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(exceptions.ErrStorageDownload(err)),
		)
		return ""
	}
	if written > maxBytes {
		uc.Log.Error("agentCallUsecase.archiveRecording recording exceeds size limit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int64("recording_size_bytes", written),
		)
		return ""
	}

	contentType := httpResponse.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	objectName := utils.GenerateRecordingObjectName(request.TenantID, request.CallID, recordingExtension(request.RecordingURL))

	_, err = uc.Storage.UploadObject(ctx, uc.InternalConfig.Minio.RecordingBucketName, objectName, &buffer, written, contentType)
	if err != nil {
		uc.Log.Error("agentCallUsecase.archiveRecording error uploading recording",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return ""
	}
	return objectName
}

func recordingExtension(recordingURL string) string {
	parsed, err := url.Parse(recordingURL)
	if err != nil {
		return ".mp3"
	}
	if ext := path.Ext(parsed.Path); ext != "" {
		return ext
	}
	return ".mp3"
}

// ClassifyOutcome normalizes the platform's free-form disconnect fields into
// the outcome classes the retry policy understands.
func ClassifyOutcome(request *requests.CallCompleted) string {
	answeredBy := strings.ToLower(strings.TrimSpace(request.AnsweredBy))
	reason := strings.ToLower(strings.TrimSpace(request.DisconnectReason))

	if answeredBy == "voicemail" || answeredBy == "machine" || strings.Contains(reason, "voicemail") {
		return constvars.OutcomeVoicemail
	}
	if request.UserRequested != "" {
		return constvars.OutcomeHumanRequestRetry
	}
	switch reason {
	case "no-answer", "busy", "failed", "rejected", "canceled", "unreachable":
		return constvars.OutcomeNoHumanContact
	}
	return constvars.OutcomeOther
}

func wantsSameTimeTomorrow(userRequested string) bool {
	normalized := strings.ToLower(strings.TrimSpace(userRequested))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized == "same-time-tomorrow"
}

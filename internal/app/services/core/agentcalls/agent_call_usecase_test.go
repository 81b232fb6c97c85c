package agentcalls

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/app/services/core/outreach"
	"leadbook-service/internal/pkg/civiltime"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLeadRepo struct {
	leads    map[string]*models.Lead
	callLogs []models.CallLog
}

func (f *fakeLeadRepo) CreateLead(ctx context.Context, leadModel *models.Lead) (string, error) {
	f.leads[leadModel.ID] = leadModel
	return leadModel.ID, nil
}

func (f *fakeLeadRepo) FindLeadByID(ctx context.Context, tenantID, leadID string) (*models.Lead, error) {
	lead, ok := f.leads[leadID]
	if !ok || lead.TenantID != tenantID {
		return nil, nil
	}
	copied := *lead
	return &copied, nil
}

func (f *fakeLeadRepo) FindAllLeads(ctx context.Context, tenantID, status string, page, pageSize int) ([]models.Lead, int64, error) {
	return nil, 0, nil
}

func (f *fakeLeadRepo) UpdateLead(ctx context.Context, leadModel *models.Lead) error {
	copied := *leadModel
	f.leads[leadModel.ID] = &copied
	return nil
}

func (f *fakeLeadRepo) FindLeadsDueForRetry(ctx context.Context, now time.Time, limit int) ([]models.Lead, error) {
	return nil, nil
}

func (f *fakeLeadRepo) CreateCallLog(ctx context.Context, callLogModel *models.CallLog) (string, error) {
	callLogModel.ID = "log-1"
	f.callLogs = append(f.callLogs, *callLogModel)
	return callLogModel.ID, nil
}

func (f *fakeLeadRepo) FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.CallLog, error) {
	return f.callLogs, nil
}

type fakeBookingRepo struct {
	nearest *models.Booking
}

func (f *fakeBookingRepo) CreateBooking(ctx context.Context, bookingModel *models.Booking) (string, error) {
	return "", nil
}

func (f *fakeBookingRepo) FindBookingByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) FindBookingsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) FindActiveBookingsByResourceAndRange(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) FindNearestBookingByLead(ctx context.Context, tenantID, leadID string, after time.Time) (*models.Booking, error) {
	return f.nearest, nil
}

func (f *fakeBookingRepo) UpdateBooking(ctx context.Context, bookingModel *models.Booking) error {
	return nil
}

type fakeStorage struct {
	bucket      string
	objectName  string
	size        int64
	contentType string
}

func (f *fakeStorage) UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	f.bucket = bucketName
	f.objectName = objectName
	f.size = size
	f.contentType = contentType
	return objectName, nil
}

func (f *fakeStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	return "https://storage.local/" + objectName, nil
}

type fakeWhatsApp struct {
	sent []*requests.WhatsAppMessage
}

func (f *fakeWhatsApp) SendWhatsAppMessage(ctx context.Context, request *requests.WhatsAppMessage) error {
	f.sent = append(f.sent, request)
	return nil
}

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{Timezone: "America/Sao_Paulo"},
		Minio: config.AppMinio{
			RecordingBucketName:               "call-recordings",
			RecordingDownloadTimeoutInSeconds: 5,
			RecordingMaxSizeInMB:              1,
		},
	}
}

func newTestUsecase(leadRepo *fakeLeadRepo, bookingRepo *fakeBookingRepo, storage *fakeStorage, whatsApp *fakeWhatsApp) *agentCallUsecase {
	return &agentCallUsecase{
		LeadRepository:    leadRepo,
		BookingRepository: bookingRepo,
		Storage:           storage,
		WhatsAppService:   whatsApp,
		Scheduler:         outreach.NewRetryScheduler(outreach.DefaultPolicy()),
		InternalConfig:    testConfig(),
		Log:               zap.NewNop(),
		httpClient:        &http.Client{Timeout: 5 * time.Second},
		now: func() time.Time {
			return time.Date(2024, 7, 1, 13, 5, 0, 0, time.UTC)
		},
	}
}

func seedLead(attemptCount int) *fakeLeadRepo {
	return &fakeLeadRepo{
		leads: map[string]*models.Lead{
			"lead-1": {
				ID:           "lead-1",
				TenantID:     "t1",
				Name:         "Ana",
				Phone:        "+5511999990000",
				Status:       constvars.LeadStatusContacting,
				AttemptCount: attemptCount,
			},
		},
	}
}

func callCompleted(reason string) *requests.CallCompleted {
	return &requests.CallCompleted{
		CallID:           "call-1",
		LeadID:           "lead-1",
		TenantID:         "t1",
		DisconnectReason: reason,
		DurationSeconds:  12,
		CompletedAt:      "2024-07-01T10:00:00-03:00", // Monday
	}
}

func customErrorCode(t *testing.T, err error) int {
	t.Helper()
	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok, "expected *exceptions.CustomError, got %T", err)
	return customErr.StatusCode
}

func TestHandleCallCompleted_NoAnswerSchedulesClampedRetry(t *testing.T) {
	leadRepo := seedLead(0)
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, &fakeStorage{}, &fakeWhatsApp{})

	decision, err := uc.HandleCallCompleted(context.Background(), callCompleted("no-answer"))
	require.NoError(t, err)

	assert.False(t, decision.Terminal)
	assert.Equal(t, "2024-07-01T12:00:00-03:00", decision.NextRetryAt)

	lead := leadRepo.leads["lead-1"]
	assert.Equal(t, constvars.LeadStatusRetryQueued, lead.Status)
	assert.Equal(t, 1, lead.AttemptCount)
	assert.Equal(t, constvars.OutcomeNoHumanContact, lead.LastOutcome)
	require.NotNil(t, lead.NextRetryAt)
	assert.Equal(t, "2024-07-01T12:00:00-03:00", lead.NextRetryLocal)

	require.Len(t, leadRepo.callLogs, 1)
	assert.Equal(t, 1, leadRepo.callLogs[0].AttemptNumber)
	assert.Equal(t, constvars.OutcomeNoHumanContact, leadRepo.callLogs[0].Outcome)
	assert.Equal(t, "call-1", leadRepo.callLogs[0].CallID)
}

func TestHandleCallCompleted_CeilingSwitchesChannel(t *testing.T) {
	leadRepo := seedLead(3)
	whatsApp := &fakeWhatsApp{}
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, &fakeStorage{}, whatsApp)

	decision, err := uc.HandleCallCompleted(context.Background(), callCompleted("no-answer"))
	require.NoError(t, err)

	assert.True(t, decision.Terminal)
	assert.Empty(t, decision.NextRetryAt)

	lead := leadRepo.leads["lead-1"]
	assert.Equal(t, constvars.LeadStatusSwitched, lead.Status)
	assert.Equal(t, 4, lead.AttemptCount)
	assert.Nil(t, lead.NextRetryAt)

	require.Len(t, whatsApp.sent, 1)
	assert.Equal(t, "+5511999990000", whatsApp.sent[0].To)
	assert.NotEmpty(t, whatsApp.sent[0].Message)
}

func TestHandleCallCompleted_VoicemailRetriesWithoutClamping(t *testing.T) {
	leadRepo := seedLead(0)
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, &fakeStorage{}, &fakeWhatsApp{})

	request := callCompleted("voicemail-detected")
	request.CompletedAt = "2024-07-03T14:00:00-03:00" // Wednesday

	decision, err := uc.HandleCallCompleted(context.Background(), request)
	require.NoError(t, err)
	require.False(t, decision.Terminal)

	next, err := time.Parse(civiltime.OffsetLayout, decision.NextRetryAt)
	require.NoError(t, err)

	completedAt, _ := time.Parse(civiltime.OffsetLayout, request.CompletedAt)
	delay := next.Sub(completedAt)
	assert.GreaterOrEqual(t, delay, 15*time.Minute)
	assert.LessOrEqual(t, delay, 25*time.Minute)
	assert.Equal(t, constvars.OutcomeVoicemail, leadRepo.leads["lead-1"].LastOutcome)
}

func TestHandleCallCompleted_NearbyAppointmentPushesRetry(t *testing.T) {
	leadRepo := seedLead(0)
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	bookingRepo := &fakeBookingRepo{
		nearest: &models.Booking{
			ID:       "bk-1",
			TenantID: "t1",
			LeadID:   "lead-1",
			StartAt:  time.Date(2024, 7, 1, 13, 0, 0, 0, loc),
			Status:   models.BookingStatusConfirmed,
		},
	}
	uc := newTestUsecase(leadRepo, bookingRepo, &fakeStorage{}, &fakeWhatsApp{})

	decision, err := uc.HandleCallCompleted(context.Background(), callCompleted("no-answer"))
	require.NoError(t, err)

	// 12:00 would land within two hours of the 13:00 appointment, so the
	// retry moves a business day forward at the same clock time.
	assert.Equal(t, "2024-07-02T12:00:00-03:00", decision.NextRetryAt)
}

func TestHandleCallCompleted_SameTimeTomorrowRequest(t *testing.T) {
	leadRepo := seedLead(0)
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, &fakeStorage{}, &fakeWhatsApp{})

	request := callCompleted("completed")
	request.AnsweredBy = "human"
	request.UserRequested = "same_time_tomorrow"

	decision, err := uc.HandleCallCompleted(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "2024-07-02T10:00:00-03:00", decision.NextRetryAt)
	assert.Equal(t, constvars.OutcomeHumanRequestRetry, leadRepo.leads["lead-1"].LastOutcome)
}

func TestHandleCallCompleted_ArchivesRecording(t *testing.T) {
	recording := strings.Repeat("a", 2048)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write([]byte(recording))
	}))
	defer server.Close()

	leadRepo := seedLead(0)
	storage := &fakeStorage{}
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, storage, &fakeWhatsApp{})

	request := callCompleted("no-answer")
	request.RecordingURL = server.URL + "/recordings/call-1.wav"

	_, err := uc.HandleCallCompleted(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, "call-recordings", storage.bucket)
	assert.True(t, strings.HasPrefix(storage.objectName, "recordings/t1/call-1_"), "object name %q", storage.objectName)
	assert.True(t, strings.HasSuffix(storage.objectName, ".wav"))
	assert.Equal(t, int64(len(recording)), storage.size)
	assert.Equal(t, "audio/wav", storage.contentType)

	require.Len(t, leadRepo.callLogs, 1)
	assert.Equal(t, storage.objectName, leadRepo.callLogs[0].RecordingObject)
}

func TestHandleCallCompleted_OversizedRecordingSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, strings.NewReader(strings.Repeat("b", 2*1024*1024)))
	}))
	defer server.Close()

	leadRepo := seedLead(0)
	storage := &fakeStorage{}
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, storage, &fakeWhatsApp{})

	request := callCompleted("no-answer")
	request.RecordingURL = server.URL + "/recordings/call-1.mp3"

	decision, err := uc.HandleCallCompleted(context.Background(), request)
	require.NoError(t, err)

	// Scheduling still happens, the archive is just skipped.
	assert.False(t, decision.Terminal)
	assert.Empty(t, storage.objectName)
	require.Len(t, leadRepo.callLogs, 1)
	assert.Empty(t, leadRepo.callLogs[0].RecordingObject)
}

func TestHandleCallCompleted_UnknownLead(t *testing.T) {
	leadRepo := &fakeLeadRepo{leads: map[string]*models.Lead{}}
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, &fakeStorage{}, &fakeWhatsApp{})

	_, err := uc.HandleCallCompleted(context.Background(), callCompleted("no-answer"))
	require.Error(t, err)
	assert.Equal(t, constvars.StatusNotFound, customErrorCode(t, err))
}

func TestHandleCallCompleted_MalformedCompletedAt(t *testing.T) {
	leadRepo := seedLead(0)
	uc := newTestUsecase(leadRepo, &fakeBookingRepo{}, &fakeStorage{}, &fakeWhatsApp{})

	request := callCompleted("no-answer")
	request.CompletedAt = "01/07/2024 10:00"

	_, err := uc.HandleCallCompleted(context.Background(), request)
	require.Error(t, err)
	assert.Equal(t, constvars.StatusBadRequest, customErrorCode(t, err))
}

func TestClassifyOutcome(t *testing.T) {
	testCases := []struct {
		name     string
		request  requests.CallCompleted
		expected string
	}{
		{"answering machine", requests.CallCompleted{AnsweredBy: "machine"}, constvars.OutcomeVoicemail},
		{"voicemail reason", requests.CallCompleted{DisconnectReason: "voicemail-detected"}, constvars.OutcomeVoicemail},
		{"no answer", requests.CallCompleted{DisconnectReason: "no-answer"}, constvars.OutcomeNoHumanContact},
		{"busy", requests.CallCompleted{DisconnectReason: "busy"}, constvars.OutcomeNoHumanContact},
		{"human requested callback", requests.CallCompleted{AnsweredBy: "human", UserRequested: "callback"}, constvars.OutcomeHumanRequestRetry},
		{"voicemail wins over user request", requests.CallCompleted{AnsweredBy: "voicemail", UserRequested: "callback"}, constvars.OutcomeVoicemail},
		{"unclassified", requests.CallCompleted{DisconnectReason: "completed"}, constvars.OutcomeOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			request := tc.request
			assert.Equal(t, tc.expected, ClassifyOutcome(&request))
		})
	}
}

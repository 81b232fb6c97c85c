package leads

import (
	"context"
	"io"
	"testing"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/models"
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
	nextID   int
}

func (f *fakeLeadRepo) CreateLead(ctx context.Context, leadModel *models.Lead) (string, error) {
	f.nextID++
	leadModel.ID = "lead-" + string(rune('0'+f.nextID))
	copied := *leadModel
	f.leads[leadModel.ID] = &copied
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
	var out []models.Lead
	for _, lead := range f.leads {
		if lead.TenantID != tenantID {
			continue
		}
		if status != "" && lead.Status != status {
			continue
		}
		out = append(out, *lead)
	}
	return out, int64(len(out)), nil
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
	return "", nil
}

func (f *fakeLeadRepo) FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.CallLog, error) {
	var out []models.CallLog
	for _, callLog := range f.callLogs {
		if callLog.TenantID == tenantID && callLog.LeadID == leadID {
			out = append(out, callLog)
		}
	}
	return out, nil
}

type fakeStorage struct {
	presignErr error
}

func (f *fakeStorage) UploadObject(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return objectName, nil
}

func (f *fakeStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	return "https://minio.local/" + bucketName + "/" + objectName + "?signed", nil
}

func newTestUsecase() (*leadUsecase, *fakeLeadRepo) {
	repo := &fakeLeadRepo{leads: map[string]*models.Lead{}}
	cfg := &config.InternalConfig{
		Minio: config.AppMinio{
			RecordingBucketName:                 "call-recordings",
			PreSignedUrlObjectExpiryTimeInHours: 24,
		},
	}
	return &leadUsecase{LeadRepository: repo, Storage: &fakeStorage{}, InternalConfig: cfg, Log: zap.NewNop()}, repo
}

func TestCreateLead(t *testing.T) {
	uc, repo := newTestUsecase()

	response, err := uc.CreateLead(context.Background(), "t1", &requests.CreateLead{
		TenantID: "t1",
		Name:     "Ana",
		Phone:    "+5511999990000",
		Source:   "landing-page",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, response.ID)
	assert.Equal(t, constvars.LeadStatusNew, response.Status)
	assert.Zero(t, response.AttemptCount)
	assert.Contains(t, repo.leads, response.ID)
}

func TestFindLeadByID_NotFound(t *testing.T) {
	uc, _ := newTestUsecase()

	_, err := uc.FindLeadByID(context.Background(), "t1", "missing")
	require.Error(t, err)

	customErr, ok := err.(*exceptions.CustomError)
	require.True(t, ok)
	assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
}

func TestFindLeadByID_TenantIsolation(t *testing.T) {
	uc, repo := newTestUsecase()
	repo.leads["lead-1"] = &models.Lead{ID: "lead-1", TenantID: "t1", Status: constvars.LeadStatusNew}

	_, err := uc.FindLeadByID(context.Background(), "t2", "lead-1")
	require.Error(t, err)
}

func TestFindAllLeads_StatusFilter(t *testing.T) {
	uc, repo := newTestUsecase()
	repo.leads["lead-1"] = &models.Lead{ID: "lead-1", TenantID: "t1", Status: constvars.LeadStatusNew}
	repo.leads["lead-2"] = &models.Lead{ID: "lead-2", TenantID: "t1", Status: constvars.LeadStatusBooked}

	out, total, err := uc.FindAllLeads(context.Background(), "t1", &requests.QueryParams{Status: constvars.LeadStatusBooked})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, out, 1)
	assert.Equal(t, "lead-2", out[0].ID)
}

func TestFindCallLogsByLeadID(t *testing.T) {
	completedAt := time.Date(2024, 7, 1, 13, 0, 0, 0, time.UTC)

	seed := func(repo *fakeLeadRepo) {
		repo.leads["lead-1"] = &models.Lead{ID: "lead-1", TenantID: "t1", Status: constvars.LeadStatusRetryQueued}
		repo.callLogs = []models.CallLog{
			{ID: "log-1", TenantID: "t1", LeadID: "lead-1", CallID: "call-1", AttemptNumber: 1, Outcome: constvars.OutcomeVoicemail, CompletedAt: completedAt},
			{ID: "log-2", TenantID: "t1", LeadID: "lead-1", CallID: "call-2", AttemptNumber: 2, Outcome: constvars.OutcomeOther, DurationSeconds: 45, RecordingObject: "recordings/t1/call-2.mp3", CompletedAt: completedAt.Add(2 * time.Hour)},
		}
	}

	t.Run("archived recordings come back as presigned links", func(t *testing.T) {
		uc, repo := newTestUsecase()
		seed(repo)

		out, err := uc.FindCallLogsByLeadID(context.Background(), "t1", "lead-1")
		require.NoError(t, err)
		require.Len(t, out, 2)

		assert.Empty(t, out[0].RecordingURL)
		assert.Equal(t, "2024-07-01T13:00:00Z", out[0].CompletedAt)
		assert.Equal(t, "https://minio.local/call-recordings/recordings/t1/call-2.mp3?signed", out[1].RecordingURL)
		assert.Equal(t, 45, out[1].DurationSeconds)
	})

	t.Run("a presign failure does not hide the timeline", func(t *testing.T) {
		uc, repo := newTestUsecase()
		seed(repo)
		uc.Storage.(*fakeStorage).presignErr = context.DeadlineExceeded

		out, err := uc.FindCallLogsByLeadID(context.Background(), "t1", "lead-1")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Empty(t, out[1].RecordingURL)
	})

	t.Run("unknown lead is a not found", func(t *testing.T) {
		uc, _ := newTestUsecase()

		_, err := uc.FindCallLogsByLeadID(context.Background(), "t1", "missing")
		require.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		require.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})
}

func TestUpdateLeadStatus_ClearsRetrySchedule(t *testing.T) {
	uc, repo := newTestUsecase()
	retryAt := time.Date(2024, 7, 2, 15, 0, 0, 0, time.UTC)
	repo.leads["lead-1"] = &models.Lead{
		ID:             "lead-1",
		TenantID:       "t1",
		Status:         constvars.LeadStatusRetryQueued,
		NextRetryAt:    &retryAt,
		NextRetryLocal: "2024-07-02T12:00:00-03:00",
	}

	response, err := uc.UpdateLeadStatus(context.Background(), "t1", "lead-1", &requests.UpdateLeadStatus{
		Status: constvars.LeadStatusQualified,
	})
	require.NoError(t, err)

	assert.Equal(t, constvars.LeadStatusQualified, response.Status)
	assert.Empty(t, response.NextRetryLocal)
	assert.Nil(t, repo.leads["lead-1"].NextRetryAt)
}

package contracts

import (
	"context"
	"time"

	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
)

type LeadUsecase interface {
	CreateLead(ctx context.Context, tenantID string, request *requests.CreateLead) (*responses.Lead, error)
	FindLeadByID(ctx context.Context, tenantID, leadID string) (*responses.Lead, error)
	FindAllLeads(ctx context.Context, tenantID string, query *requests.QueryParams) ([]responses.Lead, int64, error)
	UpdateLeadStatus(ctx context.Context, tenantID, leadID string, request *requests.UpdateLeadStatus) (*responses.Lead, error)
	FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]responses.CallLog, error)
}

type LeadRepository interface {
	CreateLead(ctx context.Context, leadModel *models.Lead) (leadID string, err error)
	FindLeadByID(ctx context.Context, tenantID, leadID string) (*models.Lead, error)
	FindAllLeads(ctx context.Context, tenantID, status string, page, pageSize int) ([]models.Lead, int64, error)
	UpdateLead(ctx context.Context, leadModel *models.Lead) error
	// FindLeadsDueForRetry returns retry-queued leads whose NextRetryAt is at
	// or before the given instant, oldest first.
	FindLeadsDueForRetry(ctx context.Context, now time.Time, limit int) ([]models.Lead, error)
	CreateCallLog(ctx context.Context, callLogModel *models.CallLog) (callLogID string, err error)
	FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.CallLog, error)
}

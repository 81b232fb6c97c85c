package resources

import (
	"context"
	"fmt"
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

type resourceUsecase struct {
	ResourceRepository contracts.ResourceRepository
	RedisRepository    contracts.RedisRepository
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
}

var (
	resourceUsecaseInstance contracts.ResourceUsecase
	onceResourceUsecase     sync.Once
)

func NewResourceUsecase(
	resourceMongoRepository contracts.ResourceRepository,
	redisRepository contracts.RedisRepository,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ResourceUsecase {
	onceResourceUsecase.Do(func() {
		resourceUsecaseInstance = &resourceUsecase{
			ResourceRepository: resourceMongoRepository,
			RedisRepository:    redisRepository,
			InternalConfig:     internalConfig,
			Log:                logger,
		}
	})
	return resourceUsecaseInstance
}

func (uc *resourceUsecase) CreateResource(ctx context.Context, tenantID string, request *requests.CreateResource) (*responses.Resource, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.CreateResource called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTenantIDKey, tenantID),
	)

	now := time.Now().UTC()
	resourceModel := &models.Resource{
		TenantID:               tenantID,
		Name:                   request.Name,
		Timezone:               request.Timezone,
		SessionDurationMinutes: request.SessionDurationMinutes,
		WeeklySchedule:         buildWeeklySchedule(request.WeeklySchedule),
		Overrides:              buildOverrides(request.Overrides),
		Active:                 true,
	}
	resourceModel.CreatedAt = now
	resourceModel.UpdatedAt = now

	resourceID, err := uc.ResourceRepository.CreateResource(ctx, resourceModel)
	if err != nil {
		uc.Log.Error("resourceUsecase.CreateResource error inserting resource",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	resourceModel.ID = resourceID

	return buildResourceResponse(resourceModel), nil
}

func (uc *resourceUsecase) FindResourceByID(ctx context.Context, tenantID, resourceID string) (*responses.Resource, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.FindResourceByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
	)

	resourceModel, err := uc.ResourceRepository.FindResourceByID(ctx, tenantID, resourceID)
	if err != nil {
		return nil, err
	}
	if resourceModel == nil {
		return nil, exceptions.ErrResourceNotFound(nil)
	}
	return buildResourceResponse(resourceModel), nil
}

func (uc *resourceUsecase) FindAllResources(ctx context.Context, tenantID string, query *requests.QueryParams) ([]responses.Resource, int64, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.FindAllResources called",
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

	resourceModels, total, err := uc.ResourceRepository.FindAllResources(ctx, tenantID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	resourceResponses := make([]responses.Resource, 0, len(resourceModels))
	for i := range resourceModels {
		resourceResponses = append(resourceResponses, *buildResourceResponse(&resourceModels[i]))
	}
	return resourceResponses, total, nil
}

func (uc *resourceUsecase) UpdateResourceByID(ctx context.Context, tenantID, resourceID string, request *requests.UpdateResource) (*responses.Resource, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.UpdateResourceByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
	)

	resourceModel, err := uc.ResourceRepository.FindResourceByID(ctx, tenantID, resourceID)
	if err != nil {
		return nil, err
	}
	if resourceModel == nil {
		return nil, exceptions.ErrResourceNotFound(nil)
	}

	if request.Name != "" {
		resourceModel.Name = request.Name
	}
	if request.Timezone != "" {
		resourceModel.Timezone = request.Timezone
	}
	if request.SessionDurationMinutes > 0 {
		resourceModel.SessionDurationMinutes = request.SessionDurationMinutes
	}
	if request.WeeklySchedule != nil {
		resourceModel.WeeklySchedule = buildWeeklySchedule(request.WeeklySchedule)
	}
	if request.Overrides != nil {
		resourceModel.Overrides = buildOverrides(request.Overrides)
	}
	if request.Active != nil {
		resourceModel.Active = *request.Active
	}
	resourceModel.UpdatedAt = time.Now().UTC()

	if err := uc.ResourceRepository.UpdateResource(ctx, resourceModel); err != nil {
		return nil, err
	}

	// Scheduling config changed, drop the cached copy used by availability.
	if err := uc.RedisRepository.Delete(ctx, resourceCacheKey(tenantID, resourceID)); err != nil {
		uc.Log.Error("resourceUsecase.UpdateResourceByID error invalidating resource cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}

	return buildResourceResponse(resourceModel), nil
}

func (uc *resourceUsecase) DeleteResourceByID(ctx context.Context, tenantID, resourceID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceUsecase.DeleteResourceByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
	)

	resourceModel, err := uc.ResourceRepository.FindResourceByID(ctx, tenantID, resourceID)
	if err != nil {
		return err
	}
	if resourceModel == nil {
		return exceptions.ErrResourceNotFound(nil)
	}

	if err := uc.ResourceRepository.DeleteResourceByID(ctx, tenantID, resourceID); err != nil {
		return err
	}

	if err := uc.RedisRepository.Delete(ctx, resourceCacheKey(tenantID, resourceID)); err != nil {
		uc.Log.Error("resourceUsecase.DeleteResourceByID error invalidating resource cache",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	return nil
}

func resourceCacheKey(tenantID, resourceID string) string {
	return fmt.Sprintf("%s%s:%s", constvars.RedisKeyResourceConfigPrefix, tenantID, resourceID)
}

func buildWeeklySchedule(input map[string]requests.ResourceDaySchedule) models.WeeklySchedule {
	schedule := make(models.WeeklySchedule, len(input))
	for day, daySchedule := range input {
		schedule[day] = models.DaySchedule{
			Enabled:   daySchedule.Enabled,
			TimeSlots: buildTimeSlots(daySchedule.TimeSlots),
		}
	}
	return schedule
}

func buildOverrides(input []requests.ResourceDateOverride) []models.DateOverride {
	overrides := make([]models.DateOverride, 0, len(input))
	for _, override := range input {
		overrides = append(overrides, models.DateOverride{
			Date:      override.Date,
			Type:      override.Type,
			TimeSlots: buildTimeSlots(override.TimeSlots),
			Reason:    override.Reason,
		})
	}
	return overrides
}

func buildTimeSlots(input []requests.ResourceTimeSlot) []models.TimeSlot {
	slots := make([]models.TimeSlot, 0, len(input))
	for _, slot := range input {
		slots = append(slots, models.TimeSlot{
			ID:    slot.ID,
			Start: slot.Start,
			End:   slot.End,
		})
	}
	return slots
}

func buildResourceResponse(resourceModel *models.Resource) *responses.Resource {
	return &responses.Resource{
		ID:                     resourceModel.ID,
		TenantID:               resourceModel.TenantID,
		Name:                   resourceModel.Name,
		Timezone:               resourceModel.Timezone,
		SessionDurationMinutes: resourceModel.SessionDurationMinutes,
		WeeklySchedule:         resourceModel.WeeklySchedule,
		Overrides:              resourceModel.Overrides,
		Active:                 resourceModel.Active,
	}
}

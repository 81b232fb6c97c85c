package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/contracts"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/app/services/core/availability"
	"leadbook-service/internal/pkg/civiltime"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
	"leadbook-service/internal/pkg/exceptions"
	"leadbook-service/internal/pkg/metrics"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type bookingUsecase struct {
	BookingRepository  contracts.BookingRepository
	ResourceRepository contracts.ResourceRepository
	LeadRepository     contracts.LeadRepository
	RedisRepository    contracts.RedisRepository
	LockerService      contracts.LockerService
	Resolver           *availability.Resolver
	InternalConfig     *config.InternalConfig
	Log                *zap.Logger
	// now is swapped in tests.
	now func() time.Time
}

var (
	bookingUsecaseInstance contracts.BookingUsecase
	onceBookingUsecase     sync.Once
)

func NewBookingUsecase(
	bookingMongoRepository contracts.BookingRepository,
	resourceMongoRepository contracts.ResourceRepository,
	leadMongoRepository contracts.LeadRepository,
	redisRepository contracts.RedisRepository,
	lockerService contracts.LockerService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.BookingUsecase {
	onceBookingUsecase.Do(func() {
		bookingUsecaseInstance = &bookingUsecase{
			BookingRepository:  bookingMongoRepository,
			ResourceRepository: resourceMongoRepository,
			LeadRepository:     leadMongoRepository,
			RedisRepository:    redisRepository,
			LockerService:      lockerService,
			Resolver: availability.NewResolver(availability.Config{
				BufferMinutes:     internalConfig.Booking.BufferMinutes,
				HorizonDays:       internalConfig.Booking.HorizonDays,
				FallbackSlotCount: internalConfig.Booking.FallbackSlotCount,
			}),
			InternalConfig: internalConfig,
			Log:            logger,
			now:            time.Now,
		}
	})
	return bookingUsecaseInstance
}

func (uc *bookingUsecase) GetAvailability(ctx context.Context, tenantID, resourceID, requestedDate string) (*responses.Availability, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.GetAvailability called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, resourceID),
	)

	resource, err := uc.loadResource(ctx, tenantID, resourceID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	// One batched fetch covers the requested date plus the whole fallback
	// horizon. The window is anchored at the target day, not at now: a far-out
	// requested date must still see its own bookings.
	windowStart, windowEnd, err := uc.Resolver.BookingWindow(*resource, requestedDate, now)
	if err != nil {
		return nil, resolveFailure(err)
	}
	bookings, err := uc.BookingRepository.FindActiveBookingsByResourceAndRange(ctx, tenantID, resourceID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	output, err := uc.Resolver.Resolve(availability.ResolveInput{
		Resource:      *resource,
		RequestedDate: requestedDate,
		Bookings:      bookings,
		Now:           now,
	})
	if err != nil {
		return nil, resolveFailure(err)
	}

	return &responses.Availability{
		ResourceID:            resourceID,
		Date:                  output.Date,
		Slots:                 output.Slots,
		RequestedDateHasSlots: output.RequestedDateHasSlots,
		Reason:                output.Reason,
	}, nil
}

func (uc *bookingUsecase) CreateBooking(ctx context.Context, tenantID string, request *requests.CreateBooking) (*responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CreateBooking called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingResourceIDKey, request.ResourceID),
		zap.String(constvars.LoggingLeadIDKey, request.LeadID),
	)

	resource, err := uc.loadResource(ctx, tenantID, request.ResourceID)
	if err != nil {
		return nil, err
	}

	loc, err := civiltime.Location(resource.Timezone)
	if err != nil {
		return nil, exceptions.ErrUnknownTimezone(err)
	}

	startAt, err := time.Parse(time.RFC3339, request.StartAt)
	if err != nil {
		return nil, exceptions.ErrCannotParseDate(err)
	}
	startAt = startAt.In(loc)
	endAt := startAt.Add(time.Duration(resource.SessionDurationMinutes) * time.Minute)

	if request.LeadID != "" {
		lead, err := uc.LeadRepository.FindLeadByID(ctx, tenantID, request.LeadID)
		if err != nil {
			return nil, err
		}
		if lead == nil {
			return nil, exceptions.ErrLeadNotFound(nil)
		}
	}

	onSchedule, err := uc.Resolver.SlotStartsOnSchedule(*resource, startAt)
	if err != nil {
		return nil, exceptions.ErrUnknownTimezone(err)
	}
	if !onSchedule {
		return nil, exceptions.ErrSlotOutsideAvailability(nil)
	}

	// Serialize commits touching the same slot. The conflict re-check below
	// only means something while this lock is held.
	lockKey := bookingLockKey(tenantID, request.ResourceID, startAt)
	lockTTL := time.Duration(uc.InternalConfig.Booking.LockTTLInSeconds) * time.Second
	acquired, lockValue, err := uc.LockerService.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, exceptions.ErrBookingLockNotHeld(nil)
	}
	defer func() {
		if unlockErr := uc.LockerService.Unlock(ctx, lockKey, lockValue); unlockErr != nil {
			uc.Log.Error("bookingUsecase.CreateBooking error releasing booking lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(unlockErr),
			)
		}
	}()

	conflicting, err := uc.BookingRepository.FindActiveBookingsByResourceAndRange(ctx, tenantID, request.ResourceID, startAt, endAt)
	if err != nil {
		return nil, err
	}
	if len(conflicting) > 0 {
		metrics.BookingConflicts.Inc()
		return nil, exceptions.ErrBookingConflict(nil)
	}

	now := uc.now()
	bookingModel := &models.Booking{
		TenantID:   tenantID,
		ResourceID: request.ResourceID,
		LeadID:     request.LeadID,
		StartAt:    startAt,
		EndAt:      endAt,
		StartLocal: civiltime.FormatInstant(startAt, loc),
		Status:     models.BookingStatusConfirmed,
		Notes:      request.Notes,
	}
	bookingModel.CreatedAt = now
	bookingModel.UpdatedAt = now

	bookingID, err := uc.BookingRepository.CreateBooking(ctx, bookingModel)
	if err != nil {
		return nil, err
	}
	bookingModel.ID = bookingID
	metrics.BookingsCommitted.Inc()

	if request.LeadID != "" {
		if err := uc.markLeadBooked(ctx, tenantID, request.LeadID); err != nil {
			uc.Log.Error("bookingUsecase.CreateBooking error updating lead status",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingLeadIDKey, request.LeadID),
				zap.Error(err),
			)
		}
	}

	return buildBookingResponse(bookingModel, loc), nil
}

func (uc *bookingUsecase) FindBookingByID(ctx context.Context, tenantID, bookingID string) (*responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.FindBookingByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	bookingModel, err := uc.BookingRepository.FindBookingByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if bookingModel == nil {
		return nil, exceptions.ErrBookingNotFound(nil)
	}

	loc, err := uc.locationForBooking(ctx, tenantID, bookingModel)
	if err != nil {
		return nil, err
	}
	return buildBookingResponse(bookingModel, loc), nil
}

func (uc *bookingUsecase) FindBookingsByLeadID(ctx context.Context, tenantID, leadID string) ([]responses.Booking, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.FindBookingsByLeadID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingLeadIDKey, leadID),
	)

	bookingModels, err := uc.BookingRepository.FindBookingsByLeadID(ctx, tenantID, leadID)
	if err != nil {
		return nil, err
	}

	bookingResponses := make([]responses.Booking, 0, len(bookingModels))
	for i := range bookingModels {
		loc, err := uc.locationForBooking(ctx, tenantID, &bookingModels[i])
		if err != nil {
			return nil, err
		}
		bookingResponses = append(bookingResponses, *buildBookingResponse(&bookingModels[i], loc))
	}
	return bookingResponses, nil
}

func (uc *bookingUsecase) CancelBookingByID(ctx context.Context, tenantID, bookingID string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("bookingUsecase.CancelBookingByID called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBookingIDKey, bookingID),
	)

	bookingModel, err := uc.BookingRepository.FindBookingByID(ctx, tenantID, bookingID)
	if err != nil {
		return err
	}
	if bookingModel == nil {
		return exceptions.ErrBookingNotFound(nil)
	}
	if bookingModel.Status == models.BookingStatusCancelled {
		return nil
	}

	bookingModel.Status = models.BookingStatusCancelled
	bookingModel.UpdatedAt = uc.now()
	return uc.BookingRepository.UpdateBooking(ctx, bookingModel)
}

// loadResource returns the resource config, going through the redis cache
// first. Only active resources are bookable.
func (uc *bookingUsecase) loadResource(ctx context.Context, tenantID, resourceID string) (*models.Resource, error) {
	cacheKey := fmt.Sprintf("%s%s:%s", constvars.RedisKeyResourceConfigPrefix, tenantID, resourceID)

	cached, err := uc.RedisRepository.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var resource models.Resource
		if err := json.Unmarshal([]byte(cached), &resource); err == nil {
			if !resource.Active {
				return nil, exceptions.ErrResourceNotFound(nil)
			}
			return &resource, nil
		}
	}

	resource, err := uc.ResourceRepository.FindResourceByID(ctx, tenantID, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil || !resource.Active {
		return nil, exceptions.ErrResourceNotFound(nil)
	}

	cacheTTL := time.Duration(uc.InternalConfig.Booking.ResourceCacheTTLInSeconds) * time.Second
	if err := uc.RedisRepository.Set(ctx, cacheKey, resource, cacheTTL); err != nil {
		uc.Log.Error("bookingUsecase.loadResource error caching resource config",
			zap.String(constvars.LoggingResourceIDKey, resourceID),
			zap.Error(err),
		)
	}
	return resource, nil
}

func (uc *bookingUsecase) locationForBooking(ctx context.Context, tenantID string, bookingModel *models.Booking) (*time.Location, error) {
	resource, err := uc.loadResource(ctx, tenantID, bookingModel.ResourceID)
	if err != nil {
		// The resource may have been deactivated after booking; fall back to
		// the stored offset rendering's zone.
		return bookingModel.StartAt.Location(), nil
	}
	loc, err := civiltime.Location(resource.Timezone)
	if err != nil {
		return nil, exceptions.ErrUnknownTimezone(err)
	}
	return loc, nil
}

func (uc *bookingUsecase) markLeadBooked(ctx context.Context, tenantID, leadID string) error {
	lead, err := uc.LeadRepository.FindLeadByID(ctx, tenantID, leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return exceptions.ErrLeadNotFound(nil)
	}
	lead.Status = constvars.LeadStatusBooked
	lead.NextRetryAt = nil
	lead.NextRetryLocal = ""
	lead.UpdatedAt = uc.now()
	return uc.LeadRepository.UpdateLead(ctx, lead)
}

// resolveFailure maps resolver errors onto transport errors. Only malformed
// date input is the client's fault; a resource whose configuration cannot
// produce availability is a server-side problem.
func resolveFailure(err error) error {
	switch {
	case errors.Is(err, civiltime.ErrInvalidDateFormat):
		return exceptions.ErrCannotParseDate(err)
	case errors.Is(err, civiltime.ErrUnknownTimezone):
		return exceptions.ErrUnknownTimezone(err)
	default:
		return exceptions.ErrResourceMisconfigured(err)
	}
}

func bookingLockKey(tenantID, resourceID string, startAt time.Time) string {
	return fmt.Sprintf("%s%s:%s:%d", constvars.RedisKeyBookingLockPrefix, tenantID, resourceID, startAt.Unix())
}

func buildBookingResponse(bookingModel *models.Booking, loc *time.Location) *responses.Booking {
	return &responses.Booking{
		ID:         bookingModel.ID,
		ResourceID: bookingModel.ResourceID,
		LeadID:     bookingModel.LeadID,
		StartLocal: civiltime.FormatInstant(bookingModel.StartAt, loc),
		EndLocal:   civiltime.FormatInstant(bookingModel.EndAt, loc),
		Status:     bookingModel.Status,
	}
}

package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadbook-service/internal/app/config"
	"leadbook-service/internal/app/models"
	"leadbook-service/internal/app/services/core/availability"
	"leadbook-service/internal/pkg/constvars"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookingRepo struct {
	bookings   []models.Booking
	nextID     int
	insertErr  error
	rangeCalls int
}

func (f *fakeBookingRepo) CreateBooking(ctx context.Context, bookingModel *models.Booking) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.nextID++
	bookingModel.ID = time.Now().Format("20060102") + string(rune('a'+f.nextID))
	f.bookings = append(f.bookings, *bookingModel)
	return bookingModel.ID, nil
}

func (f *fakeBookingRepo) FindBookingByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error) {
	for i := range f.bookings {
		if f.bookings[i].ID == bookingID && f.bookings[i].TenantID == tenantID {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindBookingsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.TenantID == tenantID && b.LeadID == leadID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindActiveBookingsByResourceAndRange(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.Booking, error) {
	f.rangeCalls++
	var out []models.Booking
	for _, b := range f.bookings {
		if b.TenantID != tenantID || b.ResourceID != resourceID || b.Status != models.BookingStatusConfirmed {
			continue
		}
		if b.StartAt.Before(to) && b.EndAt.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindNearestBookingByLead(ctx context.Context, tenantID, leadID string, after time.Time) (*models.Booking, error) {
	var nearest *models.Booking
	for i := range f.bookings {
		b := f.bookings[i]
		if b.TenantID != tenantID || b.LeadID != leadID || b.Status != models.BookingStatusConfirmed {
			continue
		}
		if b.StartAt.Before(after) {
			continue
		}
		if nearest == nil || b.StartAt.Before(nearest.StartAt) {
			nearest = &b
		}
	}
	return nearest, nil
}

func (f *fakeBookingRepo) UpdateBooking(ctx context.Context, bookingModel *models.Booking) error {
	for i := range f.bookings {
		if f.bookings[i].ID == bookingModel.ID {
			f.bookings[i] = *bookingModel
			return nil
		}
	}
	return nil
}

type fakeResourceRepo struct {
	resources map[string]*models.Resource
}

func (f *fakeResourceRepo) CreateResource(ctx context.Context, resourceModel *models.Resource) (string, error) {
	return resourceModel.ID, nil
}

func (f *fakeResourceRepo) FindResourceByID(ctx context.Context, tenantID, resourceID string) (*models.Resource, error) {
	r, ok := f.resources[resourceID]
	if !ok || r.TenantID != tenantID {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResourceRepo) FindAllResources(ctx context.Context, tenantID string, page, pageSize int) ([]models.Resource, int64, error) {
	return nil, 0, nil
}

func (f *fakeResourceRepo) UpdateResource(ctx context.Context, resourceModel *models.Resource) error {
	return nil
}

func (f *fakeResourceRepo) DeleteResourceByID(ctx context.Context, tenantID, resourceID string) error {
	return nil
}

type fakeLeadRepo struct {
	leads map[string]*models.Lead
}

func (f *fakeLeadRepo) CreateLead(ctx context.Context, leadModel *models.Lead) (string, error) {
	return leadModel.ID, nil
}

func (f *fakeLeadRepo) FindLeadByID(ctx context.Context, tenantID, leadID string) (*models.Lead, error) {
	l, ok := f.leads[leadID]
	if !ok || l.TenantID != tenantID {
		return nil, nil
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLeadRepo) FindAllLeads(ctx context.Context, tenantID, status string, page, pageSize int) ([]models.Lead, int64, error) {
	return nil, 0, nil
}

func (f *fakeLeadRepo) UpdateLead(ctx context.Context, leadModel *models.Lead) error {
	f.leads[leadModel.ID] = leadModel
	return nil
}

func (f *fakeLeadRepo) FindLeadsDueForRetry(ctx context.Context, now time.Time, limit int) ([]models.Lead, error) {
	return nil, nil
}

func (f *fakeLeadRepo) CreateCallLog(ctx context.Context, callLogModel *models.CallLog) (string, error) {
	return "", nil
}

func (f *fakeLeadRepo) FindCallLogsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.CallLog, error) {
	return nil, nil
}

type fakeRedis struct {
	data map[string]string
}

func (f *fakeRedis) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = string(b)
	return nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	return f.data[key], nil
}

func (f *fakeRedis) Increment(ctx context.Context, key string) error { return nil }

func (f *fakeRedis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int, error) {
	return 1, nil
}

func (f *fakeRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	return true, f.Set(ctx, key, value, exp)
}

type fakeLocker struct {
	denyLock bool
	locked   []string
	released []string
}

func (f *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if f.denyLock {
		return false, "", nil
	}
	f.locked = append(f.locked, key)
	return true, "lock-value", nil
}

func (f *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	f.released = append(f.released, key)
	return nil
}

func (f *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func testResource() *models.Resource {
	weekdays := models.WeeklySchedule{}
	for _, day := range []string{models.DayMonday, models.DayTuesday, models.DayWednesday, models.DayThursday, models.DayFriday} {
		weekdays[day] = models.DaySchedule{
			Enabled: true,
			TimeSlots: []models.TimeSlot{
				{ID: "morning", Start: "09:00", End: "10:00"},
				{ID: "midday", Start: "11:00", End: "12:00"},
			},
		}
	}
	return &models.Resource{
		ID:                     "res-1",
		TenantID:               "tenant-1",
		Name:                   "Dr. Example",
		Timezone:               "America/Sao_Paulo",
		SessionDurationMinutes: 60,
		WeeklySchedule:         weekdays,
		Active:                 true,
	}
}

func newTestUsecase(t *testing.T) (*bookingUsecase, *fakeBookingRepo, *fakeLeadRepo, *fakeLocker) {
	t.Helper()
	loc := testLocation(t)
	bookingRepo := &fakeBookingRepo{}
	resourceRepo := &fakeResourceRepo{resources: map[string]*models.Resource{"res-1": testResource()}}
	leadRepo := &fakeLeadRepo{leads: map[string]*models.Lead{
		"lead-1": {ID: "lead-1", TenantID: "tenant-1", Name: "Ana", Phone: "+5511999990000", Status: constvars.LeadStatusQualified},
	}}
	locker := &fakeLocker{}

	internalConfig := &config.InternalConfig{
		Booking: config.AppBooking{
			BufferMinutes:             60,
			HorizonDays:               60,
			FallbackSlotCount:         2,
			LockTTLInSeconds:          10,
			ResourceCacheTTLInSeconds: 300,
		},
	}

	uc := &bookingUsecase{
		BookingRepository:  bookingRepo,
		ResourceRepository: resourceRepo,
		LeadRepository:     leadRepo,
		RedisRepository:    &fakeRedis{data: map[string]string{}},
		LockerService:      locker,
		Resolver: availability.NewResolver(availability.Config{
			BufferMinutes:     internalConfig.Booking.BufferMinutes,
			HorizonDays:       internalConfig.Booking.HorizonDays,
			FallbackSlotCount: internalConfig.Booking.FallbackSlotCount,
		}),
		InternalConfig: internalConfig,
		Log:            zap.NewNop(),
		// Monday 2024-07-01 10:00 local.
		now: func() time.Time { return time.Date(2024, 7, 1, 10, 0, 0, 0, loc) },
	}
	return uc, bookingRepo, leadRepo, locker
}

func customErrorCode(t *testing.T, err error) int {
	t.Helper()
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
	return customErr.StatusCode
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("commits a scheduled slot and marks the lead booked", func(t *testing.T) {
		uc, repo, leadRepo, locker := newTestUsecase(t)

		response, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			LeadID:     "lead-1",
			StartAt:    "2024-07-02T09:00:00-03:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-07-02T09:00:00-03:00", response.StartLocal)
		assert.Equal(t, "2024-07-02T10:00:00-03:00", response.EndLocal)
		assert.Equal(t, models.BookingStatusConfirmed, response.Status)
		require.Len(t, repo.bookings, 1)

		assert.Equal(t, constvars.LeadStatusBooked, leadRepo.leads["lead-1"].Status)
		assert.Nil(t, leadRepo.leads["lead-1"].NextRetryAt)

		require.Len(t, locker.locked, 1)
		assert.Equal(t, locker.locked, locker.released)
	})

	t.Run("accepts a UTC-rendered start instant", func(t *testing.T) {
		uc, repo, _, _ := newTestUsecase(t)

		// Same instant as 2024-07-02T09:00:00-03:00.
		response, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			StartAt:    "2024-07-02T12:00:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, "2024-07-02T09:00:00-03:00", response.StartLocal)
		require.Len(t, repo.bookings, 1)
	})

	t.Run("rejects an overlapping booking with a conflict", func(t *testing.T) {
		uc, repo, _, _ := newTestUsecase(t)
		loc := testLocation(t)
		repo.bookings = append(repo.bookings, models.Booking{
			ID: "existing", TenantID: "tenant-1", ResourceID: "res-1",
			StartAt: time.Date(2024, 7, 2, 9, 0, 0, 0, loc),
			EndAt:   time.Date(2024, 7, 2, 10, 0, 0, 0, loc),
			Status:  models.BookingStatusConfirmed,
		})

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			StartAt:    "2024-07-02T09:00:00-03:00",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusConflict, customErrorCode(t, err))
		assert.Len(t, repo.bookings, 1)
	})

	t.Run("a cancelled booking does not block the slot", func(t *testing.T) {
		uc, repo, _, _ := newTestUsecase(t)
		loc := testLocation(t)
		repo.bookings = append(repo.bookings, models.Booking{
			ID: "cancelled", TenantID: "tenant-1", ResourceID: "res-1",
			StartAt: time.Date(2024, 7, 2, 9, 0, 0, 0, loc),
			EndAt:   time.Date(2024, 7, 2, 10, 0, 0, 0, loc),
			Status:  models.BookingStatusCancelled,
		})

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			StartAt:    "2024-07-02T09:00:00-03:00",
		})
		require.NoError(t, err)
	})

	t.Run("rejects a start that is not on the schedule", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			StartAt:    "2024-07-02T10:30:00-03:00",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusUnprocessableEntity, customErrorCode(t, err))
	})

	t.Run("fails fast when the slot lock is already held", func(t *testing.T) {
		uc, repo, _, locker := newTestUsecase(t)
		locker.denyLock = true

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			StartAt:    "2024-07-02T09:00:00-03:00",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusConflict, customErrorCode(t, err))
		assert.Empty(t, repo.bookings)
	})

	t.Run("unknown resource is a not found", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "missing",
			StartAt:    "2024-07-02T09:00:00-03:00",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, customErrorCode(t, err))
	})

	t.Run("unknown lead is a not found", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			LeadID:     "missing",
			StartAt:    "2024-07-02T09:00:00-03:00",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, customErrorCode(t, err))
	})

	t.Run("malformed start instant is a bad request", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.CreateBooking(ctx, "tenant-1", &requests.CreateBooking{
			ResourceID: "res-1",
			StartAt:    "tomorrow at nine",
		})
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, customErrorCode(t, err))
	})
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("booked slots disappear from the offer", func(t *testing.T) {
		uc, repo, _, _ := newTestUsecase(t)
		loc := testLocation(t)
		repo.bookings = append(repo.bookings, models.Booking{
			ID: "existing", TenantID: "tenant-1", ResourceID: "res-1",
			StartAt: time.Date(2024, 7, 2, 9, 0, 0, 0, loc),
			EndAt:   time.Date(2024, 7, 2, 10, 0, 0, 0, loc),
			Status:  models.BookingStatusConfirmed,
		})

		response, err := uc.GetAvailability(ctx, "tenant-1", "res-1", "2024-07-02")
		require.NoError(t, err)
		assert.Equal(t, "2024-07-02", response.Date)
		assert.Equal(t, []string{"2024-07-02T11:00:00-03:00"}, response.Slots)
		assert.True(t, response.RequestedDateHasSlots)
	})

	t.Run("a booking far past the fallback horizon still blocks its slot", func(t *testing.T) {
		uc, repo, _, _ := newTestUsecase(t)
		loc := testLocation(t)
		// 100 days after now, well beyond a window anchored at now.
		repo.bookings = append(repo.bookings, models.Booking{
			ID: "far-out", TenantID: "tenant-1", ResourceID: "res-1",
			StartAt: time.Date(2024, 10, 9, 9, 0, 0, 0, loc),
			EndAt:   time.Date(2024, 10, 9, 10, 0, 0, 0, loc),
			Status:  models.BookingStatusConfirmed,
		})

		response, err := uc.GetAvailability(ctx, "tenant-1", "res-1", "2024-10-09")
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-10-09T11:00:00-03:00"}, response.Slots)
	})

	t.Run("resolves through the cached resource on repeat calls", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		first, err := uc.GetAvailability(ctx, "tenant-1", "res-1", "2024-07-02")
		require.NoError(t, err)
		second, err := uc.GetAvailability(ctx, "tenant-1", "res-1", "2024-07-02")
		require.NoError(t, err)
		assert.Equal(t, first.Slots, second.Slots)
	})

	t.Run("invalid date is a bad request", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)

		_, err := uc.GetAvailability(ctx, "tenant-1", "res-1", "not-a-date")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusBadRequest, customErrorCode(t, err))
	})

	t.Run("a misconfigured resource is a server error, not bad input", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)
		broken := testResource()
		broken.ID = "res-broken"
		broken.SessionDurationMinutes = 0
		uc.ResourceRepository.(*fakeResourceRepo).resources["res-broken"] = broken

		_, err := uc.GetAvailability(ctx, "tenant-1", "res-broken", "2024-07-02")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusInternalServerError, customErrorCode(t, err))
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("cancelling twice is idempotent", func(t *testing.T) {
		uc, repo, _, _ := newTestUsecase(t)
		loc := testLocation(t)
		repo.bookings = append(repo.bookings, models.Booking{
			ID: "b-1", TenantID: "tenant-1", ResourceID: "res-1",
			StartAt: time.Date(2024, 7, 2, 9, 0, 0, 0, loc),
			EndAt:   time.Date(2024, 7, 2, 10, 0, 0, 0, loc),
			Status:  models.BookingStatusConfirmed,
		})

		require.NoError(t, uc.CancelBookingByID(ctx, "tenant-1", "b-1"))
		assert.Equal(t, models.BookingStatusCancelled, repo.bookings[0].Status)
		require.NoError(t, uc.CancelBookingByID(ctx, "tenant-1", "b-1"))
	})

	t.Run("unknown booking is a not found", func(t *testing.T) {
		uc, _, _, _ := newTestUsecase(t)
		err := uc.CancelBookingByID(ctx, "tenant-1", "missing")
		require.Error(t, err)
		assert.Equal(t, constvars.StatusNotFound, customErrorCode(t, err))
	})
}

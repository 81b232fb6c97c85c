package contracts

import (
	"context"
	"time"

	"leadbook-service/internal/app/models"
	"leadbook-service/internal/pkg/dto/requests"
	"leadbook-service/internal/pkg/dto/responses"
)

type BookingUsecase interface {
	// GetAvailability resolves the bookable slots of a resource for a
	// requested civil date, falling back to nearby dates when the day is
	// full or closed.
	GetAvailability(ctx context.Context, tenantID, resourceID, requestedDate string) (*responses.Availability, error)
	CreateBooking(ctx context.Context, tenantID string, request *requests.CreateBooking) (*responses.Booking, error)
	FindBookingByID(ctx context.Context, tenantID, bookingID string) (*responses.Booking, error)
	FindBookingsByLeadID(ctx context.Context, tenantID, leadID string) ([]responses.Booking, error)
	CancelBookingByID(ctx context.Context, tenantID, bookingID string) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, bookingModel *models.Booking) (bookingID string, err error)
	FindBookingByID(ctx context.Context, tenantID, bookingID string) (*models.Booking, error)
	FindBookingsByLeadID(ctx context.Context, tenantID, leadID string) ([]models.Booking, error)
	// FindActiveBookingsByResourceAndRange returns confirmed bookings whose
	// [StartAt, EndAt) interval intersects [from, to).
	FindActiveBookingsByResourceAndRange(ctx context.Context, tenantID, resourceID string, from, to time.Time) ([]models.Booking, error)
	// FindNearestBookingByLead returns the confirmed booking with the
	// smallest StartAt at or after the given instant, or nil when none.
	FindNearestBookingByLead(ctx context.Context, tenantID, leadID string, after time.Time) (*models.Booking, error)
	UpdateBooking(ctx context.Context, bookingModel *models.Booking) error
}

package booking

import (
	"context"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
)

// BookingRepository defines the storage operations the lifecycle uses.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, ref string) (*domain.Booking, error)
	List(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus, extra map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// RoomTypeReader is the read-only slice of the catalog the booking
// flow needs.
type RoomTypeReader interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
}

// AdmissionController decides whether a stay may consume capacity and
// performs the atomic multi-night reservation or release.
type AdmissionController interface {
	TryReserve(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) ([]domain.DateInventoryRecord, error)
	Release(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) error
}

// NotificationSender publishes lifecycle events after the owning state
// change has committed. Best effort; never fails the mutation.
type NotificationSender interface {
	NotifyBookingCreated(b *domain.Booking)
	NotifyBookingStatusChanged(b *domain.Booking, oldStatus, newStatus domain.BookingStatus)
	NotifyBookingDeleted(b *domain.Booking)
}

package inventory

import (
	"context"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
)

// BookingReader is the slice of the booking store the admission
// controller needs for its secondary overlap guard.
type BookingReader interface {
	CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, statuses []domain.BookingStatus) (int64, error)
}

// AvailabilityNotifier receives per-date counter changes after they
// commit. Best effort only; errors are ignored by the caller.
type AvailabilityNotifier interface {
	NotifyAvailabilityChanged(roomTypeID int64, rec domain.DateInventoryRecord)
}

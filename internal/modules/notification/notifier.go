package notification

import (
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Notifier adapts the hub to the notifier interfaces the booking and
// inventory services consume. All methods are fire and forget.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyBookingCreated(b *domain.Booking) {
	n.publish(EventBookingCreated, bookingPayload(b))
}

func (n *Notifier) NotifyBookingStatusChanged(b *domain.Booking, oldStatus, newStatus domain.BookingStatus) {
	p := bookingPayload(b)
	p.OldStatus = string(oldStatus)
	p.NewStatus = string(newStatus)
	n.publish(EventBookingStatusChanged, p)
}

func (n *Notifier) NotifyBookingDeleted(b *domain.Booking) {
	n.publish(EventBookingDeleted, bookingPayload(b))
}

func (n *Notifier) NotifyAvailabilityChanged(roomTypeID int64, rec domain.DateInventoryRecord) {
	n.publish(EventRoomAvailabilityChanged, AvailabilityPayload{
		RoomTypeID:       roomTypeID,
		Date:             rec.Date.Format(dateLayout),
		BookedQuantity:   rec.BookedQuantity,
		MaxSalesQuantity: rec.MaxSalesQuantity,
		IsAvailable:      rec.IsAvailable,
	})
}

func (n *Notifier) publish(eventType string, payload interface{}) {
	n.hub.Broadcast(Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		CreatedAt: time.Now(),
		Payload:   payload,
	})
}

func bookingPayload(b *domain.Booking) BookingPayload {
	return BookingPayload{
		BookingID:     b.ID,
		ReferenceCode: b.ReferenceCode,
		RoomTypeID:    b.RoomTypeID,
		Status:        string(b.Status),
		CheckInDate:   b.CheckInDate.Format(dateLayout),
		CheckOutDate:  b.CheckOutDate.Format(dateLayout),
	}
}

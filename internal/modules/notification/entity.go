package notification

import "time"

// Event type constants
const (
	EventBookingCreated          = "booking_created"
	EventBookingStatusChanged    = "booking_status_changed"
	EventBookingDeleted          = "booking_deleted"
	EventRoomAvailabilityChanged = "room_availability_changed"
)

// Event is the structured message fanned out to subscribers after a
// mutation commits. Delivery is best effort and at most once; nothing
// here is a source of truth, subscribers re-query to reconcile.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   interface{} `json:"payload"`
}

type BookingPayload struct {
	BookingID     int64  `json:"booking_id"`
	ReferenceCode string `json:"reference_code,omitempty"`
	RoomTypeID    int64  `json:"room_type_id"`
	Status        string `json:"status"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	OldStatus     string `json:"old_status,omitempty"`
	NewStatus     string `json:"new_status,omitempty"`
}

type AvailabilityPayload struct {
	RoomTypeID       int64  `json:"room_type_id"`
	Date             string `json:"date"`
	BookedQuantity   int    `json:"booked_quantity"`
	MaxSalesQuantity int    `json:"max_sales_quantity"`
	IsAvailable      bool   `json:"is_available"`
}

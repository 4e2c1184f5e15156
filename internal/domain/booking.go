package domain

import "time"

type BookingStatus string

const (
	BookingPending        BookingStatus = "pending"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingPaid           BookingStatus = "paid"
	BookingCashOnSite     BookingStatus = "cash_on_site"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCashOnSite   PaymentMethod = "cash_on_site"
)

// bookingTransitions is the full lifecycle graph. Cancellation is
// reachable from every non-terminal status; completed and cancelled
// are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:        {BookingConfirmed, BookingCancelled},
	BookingConfirmed:      {BookingPendingPayment, BookingCashOnSite, BookingCancelled},
	BookingPendingPayment: {BookingPaid, BookingCancelled},
	BookingPaid:           {BookingCompleted, BookingCancelled},
	BookingCashOnSite:     {BookingCompleted, BookingCancelled},
	BookingCompleted:      {},
	BookingCancelled:      {},
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// ConsumesInventory reports whether a booking in this status still
// holds one inventory unit per night of its stay. Completed bookings
// keep consuming their nights (historical occupancy); only
// cancellation releases them.
func (s BookingStatus) ConsumesInventory() bool {
	return s != BookingCancelled
}

type Booking struct {
	ID            int64  `json:"id" gorm:"primaryKey"`
	ReferenceCode string `json:"reference_code" gorm:"uniqueIndex;size:64"`
	RoomTypeID    int64  `json:"room_type_id" gorm:"index" validate:"required"`

	GuestName  string `json:"guest_name" validate:"required"`
	GuestEmail string `json:"guest_email" validate:"required,email"`
	GuestPhone string `json:"guest_phone,omitempty"`

	// CheckOutDate is exclusive: the stay occupies every night in
	// [CheckInDate, CheckOutDate).
	CheckInDate    time.Time `json:"check_in_date" validate:"required"`
	CheckOutDate   time.Time `json:"check_out_date" validate:"required"`
	NumberOfGuests int       `json:"number_of_guests" validate:"gte=1"`
	TotalPrice     float64   `json:"total_price"`

	Status           BookingStatus `json:"status" gorm:"size:32;index"`
	PaymentMethod    PaymentMethod `json:"payment_method,omitempty" gorm:"size:32"`
	PaymentReference string        `json:"payment_reference,omitempty" gorm:"size:64"`

	CancellationReason string     `json:"cancellation_reason,omitempty" gorm:"type:text"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	RoomType *RoomType `json:"room_type,omitempty" gorm:"foreignKey:RoomTypeID"`
}

func (Booking) TableName() string { return "bookings" }

// Nights returns every occupied night of the stay.
func (b *Booking) Nights() []time.Time {
	return NightsBetween(b.CheckInDate, b.CheckOutDate)
}

package booking

type CreateBookingRequest struct {
	RoomTypeID     int64  `json:"room_type_id" binding:"required"`
	GuestName      string `json:"guest_name" binding:"required"`
	GuestEmail     string `json:"guest_email" binding:"required,email"`
	GuestPhone     string `json:"guest_phone"`
	CheckInDate    string `json:"check_in_date" binding:"required"`
	CheckOutDate   string `json:"check_out_date" binding:"required"`
	NumberOfGuests int    `json:"number_of_guests" binding:"required,gte=1"`
}

type SelectPaymentMethodRequest struct {
	Method string `json:"method" binding:"required,oneof=bank_transfer cash_on_site"`
}

type ConfirmPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

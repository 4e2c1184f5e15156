package domain

import "time"

// DefaultMaxSalesQuantity is the per-night capacity a date inventory
// record starts with when no room-type default applies.
const DefaultMaxSalesQuantity = 10

// DateInventoryRecord is the per-(room type, night) capacity and
// consumption counter. Records are created lazily by the first
// operation touching a date and are never deleted, only updated.
type DateInventoryRecord struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	RoomTypeID       int64     `json:"room_type_id" gorm:"uniqueIndex:idx_room_type_date;not null"`
	Date             time.Time `json:"date" gorm:"uniqueIndex:idx_room_type_date;not null"`
	MaxSalesQuantity int       `json:"max_sales_quantity"`
	BookedQuantity   int       `json:"booked_quantity"`
	IsAvailable      bool      `json:"is_available"`
	Reason           string    `json:"reason,omitempty" gorm:"type:text"`

	// Per-date price overrides; nil means the room type price applies.
	WeekdayPrice *float64 `json:"weekday_price,omitempty"`
	WeekendPrice *float64 `json:"weekend_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DateInventoryRecord) TableName() string { return "date_inventory" }

// Remaining returns the number of still sellable units for the night.
func (r *DateInventoryRecord) Remaining() int {
	if n := r.MaxSalesQuantity - r.BookedQuantity; n > 0 {
		return n
	}
	return 0
}

// NightlyPrice resolves the price for this night, preferring the
// per-date override over the room type base price.
func (r *DateInventoryRecord) NightlyPrice(rt *RoomType) float64 {
	if IsWeekendNight(r.Date) {
		if r.WeekendPrice != nil {
			return *r.WeekendPrice
		}
		return rt.WeekendPrice
	}
	if r.WeekdayPrice != nil {
		return *r.WeekdayPrice
	}
	return rt.WeekdayPrice
}

// NormalizeDate truncates t to midnight UTC. All ledger keys use
// normalized dates so one calendar day maps to exactly one record.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween enumerates every occupied night of a stay:
// [checkIn, checkOut) with an exclusive checkout date.
func NightsBetween(checkIn, checkOut time.Time) []time.Time {
	from := NormalizeDate(checkIn)
	to := NormalizeDate(checkOut)

	var nights []time.Time
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// IsWeekendNight reports whether the night of d is priced as a weekend
// night (Friday and Saturday nights).
func IsWeekendNight(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

package domain

import "time"

type RoomType struct {
	ID               int64     `json:"id" gorm:"primaryKey"`
	Name             string    `json:"name" gorm:"uniqueIndex;size:120" validate:"required"`
	Description      string    `json:"description,omitempty" gorm:"type:text"`
	WeekdayPrice     float64   `json:"weekday_price" validate:"gte=0"`
	WeekendPrice     float64   `json:"weekend_price" validate:"gte=0"`
	MaxSalesQuantity int       `json:"max_sales_quantity" validate:"gte=0"`
	MaxGuests        int       `json:"max_guests"`
	IsAvailable      bool      `json:"is_available"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (RoomType) TableName() string { return "room_types" }

// NightlyPrice returns the base price for one night, before any
// per-date override from the inventory ledger.
func (rt *RoomType) NightlyPrice(night time.Time) float64 {
	if IsWeekendNight(night) {
		return rt.WeekendPrice
	}
	return rt.WeekdayPrice
}

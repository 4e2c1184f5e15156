package catalog

type RoomTypeRequest struct {
	Name             string  `json:"name" binding:"required"`
	Description      string  `json:"description"`
	WeekdayPrice     float64 `json:"weekday_price" binding:"gte=0"`
	WeekendPrice     float64 `json:"weekend_price" binding:"gte=0"`
	MaxSalesQuantity int     `json:"max_sales_quantity" binding:"gte=0"`
	MaxGuests        int     `json:"max_guests" binding:"gte=0"`
	IsAvailable      *bool   `json:"is_available"`
}

type FacilityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

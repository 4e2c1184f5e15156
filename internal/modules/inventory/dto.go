package inventory

import (
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
)

const dateLayout = "2006-01-02"

type SetAvailabilityRequest struct {
	Dates       []string `json:"dates" binding:"required,min=1"`
	IsAvailable *bool    `json:"is_available" binding:"required"`
	Reason      string   `json:"reason"`
}

type SetMaxQuantityRequest struct {
	Date             string `json:"date" binding:"required"`
	MaxSalesQuantity *int   `json:"max_sales_quantity" binding:"required"`
}

type SetPriceRequest struct {
	Date         string   `json:"date" binding:"required"`
	WeekdayPrice *float64 `json:"weekday_price"`
	WeekendPrice *float64 `json:"weekend_price"`
}

type CalendarRecord struct {
	Date             string   `json:"date"`
	MaxSalesQuantity int      `json:"max_sales_quantity"`
	BookedQuantity   int      `json:"booked_quantity"`
	Remaining        int      `json:"remaining"`
	IsAvailable      bool     `json:"is_available"`
	Reason           string   `json:"reason,omitempty"`
	WeekdayPrice     *float64 `json:"weekday_price,omitempty"`
	WeekendPrice     *float64 `json:"weekend_price,omitempty"`
}

func toCalendarRecord(rec domain.DateInventoryRecord) CalendarRecord {
	return CalendarRecord{
		Date:             rec.Date.Format(dateLayout),
		MaxSalesQuantity: rec.MaxSalesQuantity,
		BookedQuantity:   rec.BookedQuantity,
		Remaining:        rec.Remaining(),
		IsAvailable:      rec.IsAvailable,
		Reason:           rec.Reason,
		WeekdayPrice:     rec.WeekdayPrice,
		WeekendPrice:     rec.WeekendPrice,
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return domain.NormalizeDate(d), nil
}

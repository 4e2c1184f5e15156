package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes the read-only calendar and the advisory
// availability check.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/room-types/:id/availability", h.GetCalendar)
	rg.GET("/room-types/:id/check", h.CheckAvailability)
}

// RegisterAdminRoutes exposes the administrative ledger overrides.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.PUT("/room-types/:id/availability", h.SetAvailability)
	rg.PUT("/room-types/:id/max-quantity", h.SetMaxQuantity)
	rg.PUT("/room-types/:id/price", h.SetPrice)
}

func (h *Handler) GetCalendar(c *gin.Context) {
	roomTypeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid 'from' date, expected YYYY-MM-DD")
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid 'to' date, expected YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "'to' must not precede 'from'")
		return
	}

	recs, err := h.service.Calendar(c.Request.Context(), roomTypeID, from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load availability")
		return
	}

	out := make([]CalendarRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toCalendarRecord(rec))
	}
	response.Success(c, http.StatusOK, gin.H{"records": out})
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	roomTypeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	checkIn, err := parseDate(c.Query("check_in"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid 'check_in' date, expected YYYY-MM-DD")
		return
	}
	checkOut, err := parseDate(c.Query("check_out"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid 'check_out' date, expected YYYY-MM-DD")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), roomTypeID, checkIn, checkOut)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Check-out must be after check-in")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Availability check failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"available": available})
}

func (h *Handler) SetAvailability(c *gin.Context) {
	roomTypeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	dates := make([]time.Time, 0, len(req.Dates))
	for _, s := range req.Dates {
		d, err := parseDate(s)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date: "+s)
			return
		}
		dates = append(dates, d)
	}

	recs, err := h.service.SetAvailability(c.Request.Context(), roomTypeID, dates, *req.IsAvailable, req.Reason)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update availability")
		return
	}

	out := make([]CalendarRecord, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toCalendarRecord(rec))
	}
	response.Success(c, http.StatusOK, gin.H{"records": out})
}

func (h *Handler) SetMaxQuantity(c *gin.Context) {
	roomTypeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SetMaxQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		return
	}

	rec, err := h.service.SetMaxQuantity(c.Request.Context(), roomTypeID, date, *req.MaxSalesQuantity)
	if err != nil {
		switch err {
		case ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "max_sales_quantity must not be negative")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update capacity")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": toCalendarRecord(*rec)})
}

func (h *Handler) SetPrice(c *gin.Context) {
	roomTypeID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
		return
	}

	rec, err := h.service.SetPriceOverride(c.Request.Context(), roomTypeID, date, req.WeekdayPrice, req.WeekendPrice)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update price")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"record": toCalendarRecord(*rec)})
}

func parseIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room type ID")
		return 0, false
	}
	return id, true
}

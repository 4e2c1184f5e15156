package booking

import (
	"net/http"
	"strconv"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/inventory"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes: guests create bookings and look them up.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings/:id", h.Get)
	rg.GET("/bookings/ref/:code", h.GetByReference)
}

// RegisterAdminRoutes: lifecycle transitions are staff actions.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.List)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/payment-method", h.SelectPaymentMethod)
	rg.POST("/bookings/:id/payment", h.ConfirmPayment)
	rg.POST("/bookings/:id/complete", h.MarkCompleted)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.DELETE("/bookings/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) GetByReference(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_REFERENCE", "Reference code is required")
		return
	}

	b, err := h.service.GetByReference(c.Request.Context(), code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	status := domain.BookingStatus(c.Query("status"))

	out, err := h.service.List(c.Request.Context(), status, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func (h *Handler) Confirm(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) SelectPaymentMethod(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req SelectPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid payment method")
		return
	}

	b, err := h.service.SelectPaymentMethod(c.Request.Context(), id, domain.PaymentMethod(req.Method))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.ConfirmPayment(c.Request.Context(), id, req.Reference)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) MarkCompleted(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	b, err := h.service.MarkCompleted(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req) // reason is optional

	b, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
	case ErrInvalidPaymentReference:
		response.Error(c, http.StatusBadRequest, "INVALID_PAYMENT_REFERENCE", "Payment reference must be exactly 5 digits")
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case ErrInvalidStatusTransition:
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "Transition not allowed from the current status")
	case inventory.ErrRoomUnavailable:
		response.Error(c, http.StatusConflict, "ROOM_UNAVAILABLE", "At least one requested date is blocked")
	case inventory.ErrCapacityExceeded:
		response.Error(c, http.StatusConflict, "CAPACITY_EXCEEDED", "No remaining capacity for the requested dates")
	case inventory.ErrConcurrentModification:
		response.Error(c, http.StatusConflict, "CONCURRENT_MODIFICATION", "Please retry the request")
	case inventory.ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Check-out must be after check-in")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

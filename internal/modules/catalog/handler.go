package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/room-types", h.ListRoomTypes)
	rg.GET("/room-types/:id", h.GetRoomType)
	rg.GET("/facilities", h.ListFacilities)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/room-types", h.CreateRoomType)
	rg.PUT("/room-types/:id", h.UpdateRoomType)
	rg.POST("/facilities", h.CreateFacility)
	rg.PUT("/facilities/:id", h.UpdateFacility)
	rg.DELETE("/facilities/:id", h.DeleteFacility)
}

func (h *Handler) ListRoomTypes(c *gin.Context) {
	onlyAvailable := c.Query("all") == ""

	out, err := h.service.ListRoomTypes(c.Request.Context(), onlyAvailable)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list room types")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room_types": out})
}

func (h *Handler) GetRoomType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	rt, err := h.service.GetRoomType(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room_type": rt})
}

func (h *Handler) CreateRoomType(c *gin.Context) {
	var req RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rt, err := h.service.CreateRoomType(c.Request.Context(), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room_type": rt})
}

func (h *Handler) UpdateRoomType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req RoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rt, err := h.service.UpdateRoomType(c.Request.Context(), id, req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room_type": rt})
}

func (h *Handler) ListFacilities(c *gin.Context) {
	out, err := h.service.ListFacilities(c.Request.Context(), c.Query("all") == "")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list facilities")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"facilities": out})
}

func (h *Handler) CreateFacility(c *gin.Context) {
	var req FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	f, err := h.service.CreateFacility(c.Request.Context(), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"facility": f})
}

func (h *Handler) UpdateFacility(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req FacilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	f, err := h.service.UpdateFacility(c.Request.Context(), id, req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"facility": f})
}

func (h *Handler) DeleteFacility(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteFacility(c.Request.Context(), id); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeCatalogError(c *gin.Context, err error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ValidationFailed(c, http.StatusBadRequest, "Invalid request", ve.Fields)
		return
	}

	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}

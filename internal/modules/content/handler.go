package content

import (
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
	rg.GET("/news", h.ListNews)
	rg.GET("/home-page", h.GetHomePage)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/news", h.CreateNews)
	rg.PUT("/news/:id", h.UpdateNews)
	rg.DELETE("/news/:id", h.DeleteNews)
	rg.PUT("/home-page", h.UpdateHomePage)
}

func (h *Handler) ListNews(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.ListNews(c.Request.Context(), c.Query("all") == "", limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list news")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"news": out})
}

func (h *Handler) CreateNews(c *gin.Context) {
	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	post, err := h.service.CreateNews(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create news post")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"post": post})
}

func (h *Handler) UpdateNews(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid news ID")
		return
	}

	var req NewsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	post, err := h.service.UpdateNews(c.Request.Context(), id, req)
	if err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "News post not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update news post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": post})
}

func (h *Handler) DeleteNews(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid news ID")
		return
	}

	if err := h.service.DeleteNews(c.Request.Context(), id); err != nil {
		if err == ErrNotFound {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "News post not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete news post")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) GetHomePage(c *gin.Context) {
	cfg, err := h.service.GetHomePage(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load home page config")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"home_page": cfg})
}

func (h *Handler) UpdateHomePage(c *gin.Context) {
	var req HomePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	cfg, err := h.service.UpdateHomePage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update home page config")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"home_page": cfg})
}

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/database"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/middleware"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/auth"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/booking"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/catalog"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/inventory"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/notification"
	jwtsvc "github.com/alex2691229-wq/european-castle-hotel-sub001/internal/pkg/jwt"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type E2ETestSuite struct {
	router     *gin.Engine
	db         *gorm.DB
	jwtService *jwtsvc.Service
	adminToken string
	roomType   *domain.RoomType
}

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn)
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, database.Migrate(db,
		&domain.User{},
		&domain.RoomType{},
		&domain.DateInventoryRecord{},
		&domain.Booking{},
	))

	userRepo := repository.NewUserRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	j := jwtsvc.New("e2e-test-secret", time.Hour)

	hub := notification.NewHub()
	notifier := notification.NewNotifier(hub)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	inventoryService := inventory.NewService(db, inventoryRepo, bookingRepo, notifier)
	inventoryHandler := inventory.NewHandler(inventoryService)
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, roomTypeRepo, inventoryService, notifier))
	catalogHandler := catalog.NewHandler(catalog.NewService(roomTypeRepo, db))

	r := gin.New()
	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		inventoryHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)

		staff := v1.Group("/admin")
		staff.Use(middleware.JWTAuth(j), middleware.StaffOnly())
		{
			catalogHandler.RegisterAdminRoutes(staff)
			inventoryHandler.RegisterAdminRoutes(staff)
			bookingHandler.RegisterAdminRoutes(staff)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &domain.User{Email: "admin@test.local", PasswordHash: string(hash), Role: domain.RoleAdmin}
	require.NoError(t, db.Create(admin).Error)

	token, err := j.GenerateToken(admin.ID, string(domain.RoleAdmin))
	require.NoError(t, err)

	// One sellable unit per night keeps conflicts easy to provoke.
	rt := &domain.RoomType{
		Name:             "Royal Suite",
		WeekdayPrice:     100,
		WeekendPrice:     150,
		MaxSalesQuantity: 1,
		MaxGuests:        4,
		IsAvailable:      true,
	}
	require.NoError(t, db.Create(rt).Error)

	return &E2ETestSuite{
		router:     r,
		db:         db,
		jwtService: j,
		adminToken: token,
		roomType:   rt,
	}
}

func (s *E2ETestSuite) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var parsed TestResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (s *E2ETestSuite) createBooking(t *testing.T, checkIn, checkOut string) (*httptest.ResponseRecorder, TestResponse) {
	return s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"room_type_id":     s.roomType.ID,
		"guest_name":       "Grace Hopper",
		"guest_email":      "grace@example.com",
		"check_in_date":    checkIn,
		"check_out_date":   checkOut,
		"number_of_guests": 2,
	}, "")
}

func bookingID(t *testing.T, resp TestResponse) int64 {
	t.Helper()
	b, ok := resp.Data["booking"].(map[string]interface{})
	require.True(t, ok, "response has no booking object")
	id, ok := b["id"].(float64)
	require.True(t, ok, "booking has no numeric id")
	return int64(id)
}

func TestBookingLifecycleEndToEnd(t *testing.T) {
	s := setupTestSuite(t)

	// 2026-12-03 is a Thursday, so the stay covers one weekday and one
	// weekend night.
	w, resp := s.createBooking(t, "2026-12-03", "2026-12-05")
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	id := bookingID(t, resp)
	b := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, 250.0, b["total_price"])
	assert.NotEmpty(t, b["reference_code"])

	// Capacity is one: the same nights are gone.
	w, resp = s.createBooking(t, "2026-12-03", "2026-12-05")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CAPACITY_EXCEEDED", resp.Error.Code)

	// Back-to-back is fine, checkout day is not an occupied night.
	w, resp = s.createBooking(t, "2026-12-05", "2026-12-06")
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	backToBackID := bookingID(t, resp)

	// Walk the payment lifecycle as staff.
	path := fmt.Sprintf("/api/v1/admin/bookings/%d", id)

	w, resp = s.request(t, http.MethodPost, path+"/confirm", nil, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", resp.Data["booking"].(map[string]interface{})["status"])

	w, resp = s.request(t, http.MethodPost, path+"/payment-method", gin.H{"method": "bank_transfer"}, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending_payment", resp.Data["booking"].(map[string]interface{})["status"])

	w, resp = s.request(t, http.MethodPost, path+"/payment", gin.H{"reference": "1234"}, s.adminToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PAYMENT_REFERENCE", resp.Error.Code)

	w, resp = s.request(t, http.MethodPost, path+"/payment", gin.H{"reference": "12345"}, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", resp.Data["booking"].(map[string]interface{})["status"])

	w, resp = s.request(t, http.MethodPost, path+"/complete", nil, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "completed", resp.Data["booking"].(map[string]interface{})["status"])

	// Completed stays keep consuming their nights.
	w, resp = s.createBooking(t, "2026-12-03", "2026-12-05")
	require.Equal(t, http.StatusConflict, w.Code)

	// Completed is terminal, cancellation is rejected.
	w, resp = s.request(t, http.MethodPost, path+"/cancel", gin.H{"reason": "too late"}, s.adminToken)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.Error.Code)

	// Deleting the completed booking releases its nights.
	w, _ = s.request(t, http.MethodDelete, path, nil, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.createBooking(t, "2026-12-03", "2026-12-05")
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

	// The back-to-back booking was untouched by all of the above.
	w, resp = s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", backToBackID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", resp.Data["booking"].(map[string]interface{})["status"])
}

func TestCancelReleasesNightsEndToEnd(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.createBooking(t, "2026-12-10", "2026-12-12")
	require.Equal(t, http.StatusCreated, w.Code)
	id := bookingID(t, resp)

	w, _ = s.createBooking(t, "2026-12-10", "2026-12-12")
	require.Equal(t, http.StatusConflict, w.Code)

	path := fmt.Sprintf("/api/v1/admin/bookings/%d/cancel", id)
	w, resp = s.request(t, http.MethodPost, path, gin.H{"reason": "guest request"}, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	b := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "cancelled", b["status"])
	assert.Equal(t, "guest request", b["cancellation_reason"])

	// Cancelling twice is rejected and must not release twice.
	w, resp = s.request(t, http.MethodPost, path, gin.H{"reason": "again"}, s.adminToken)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_TRANSITION", resp.Error.Code)

	// The nights are sellable again, exactly once.
	w, _ = s.createBooking(t, "2026-12-10", "2026-12-12")
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.createBooking(t, "2026-12-10", "2026-12-12")
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminBlockEndToEnd(t *testing.T) {
	s := setupTestSuite(t)

	blockPath := fmt.Sprintf("/api/v1/admin/room-types/%d/availability", s.roomType.ID)
	isAvailable := false
	w, _ := s.request(t, http.MethodPut, blockPath, gin.H{
		"dates":        []string{"2026-12-20"},
		"is_available": isAvailable,
		"reason":       "maintenance",
	}, s.adminToken)
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	checkPath := fmt.Sprintf("/api/v1/room-types/%d/check?check_in=2026-12-19&check_out=2026-12-21", s.roomType.ID)
	w, resp := s.request(t, http.MethodGet, checkPath, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp.Data["available"])

	w, resp = s.createBooking(t, "2026-12-19", "2026-12-21")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "ROOM_UNAVAILABLE", resp.Error.Code)

	// A stay ending before the block is unaffected.
	w, _ = s.createBooking(t, "2026-12-18", "2026-12-20")
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
}

func TestCalendarEndToEnd(t *testing.T) {
	s := setupTestSuite(t)

	w, _ := s.createBooking(t, "2026-12-03", "2026-12-04")
	require.Equal(t, http.StatusCreated, w.Code)

	path := fmt.Sprintf("/api/v1/room-types/%d/availability?from=2026-12-03&to=2026-12-05", s.roomType.ID)
	w, resp := s.request(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	records, ok := resp.Data["records"].([]interface{})
	require.True(t, ok)
	require.Len(t, records, 3)

	first := records[0].(map[string]interface{})
	assert.Equal(t, 1.0, first["booked_quantity"])
	assert.Equal(t, 0.0, first["remaining"])
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := setupTestSuite(t)

	w, resp := s.request(t, http.MethodGet, "/api/v1/admin/bookings", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)

	w, _ = s.request(t, http.MethodGet, "/api/v1/admin/bookings", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Login issues a working staff token.
	w, resp = s.request(t, http.MethodPost, "/api/v1/auth/login", gin.H{
		"email":    "admin@test.local",
		"password": "admin123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token, ok := resp.Data["token"].(string)
	require.True(t, ok)

	w, _ = s.request(t, http.MethodGet, "/api/v1/admin/bookings", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
}

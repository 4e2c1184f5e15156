package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/database"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/middleware"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/auth"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/booking"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/catalog"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/contact"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/content"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/inventory"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/modules/notification"
	jwtsvc "github.com/alex2691229-wq/european-castle-hotel-sub001/internal/pkg/jwt"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "hotel.db"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	if err := database.Migrate(db,
		&domain.User{},
		&domain.RoomType{},
		&domain.DateInventoryRecord{},
		&domain.Booking{},
		&domain.Facility{},
		&domain.NewsPost{},
		&domain.HomePageConfig{},
		&domain.ContactMessage{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)

	hub := notification.NewHub()
	notifier := notification.NewNotifier(hub)
	wsHandler := notification.NewHandler(hub)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	inventoryService := inventory.NewService(db, inventoryRepo, bookingRepo, notifier)
	inventoryHandler := inventory.NewHandler(inventoryService)

	bookingService := booking.NewService(bookingRepo, roomTypeRepo, inventoryService, notifier)
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(roomTypeRepo, db)
	catalogHandler := catalog.NewHandler(catalogService)

	contentService := content.NewService(db)
	contentHandler := content.NewHandler(contentService)

	contactService := contact.NewService(db)
	contactHandler := contact.NewHandler(contactService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		inventoryHandler.RegisterPublicRoutes(v1)
		bookingHandler.RegisterPublicRoutes(v1)
		contentHandler.RegisterPublicRoutes(v1)
		contactHandler.RegisterPublicRoutes(v1)
		wsHandler.RegisterRoutes(v1)

		staff := v1.Group("/admin")
		staff.Use(middleware.JWTAuth(j), middleware.StaffOnly())
		{
			catalogHandler.RegisterAdminRoutes(staff)
			inventoryHandler.RegisterAdminRoutes(staff)
			bookingHandler.RegisterAdminRoutes(staff)
			contentHandler.RegisterAdminRoutes(staff)
			contactHandler.RegisterAdminRoutes(staff)

			adminOnly := staff.Group("/")
			adminOnly.Use(middleware.AdminOnly())
			{
				authHandler.RegisterAdminRoutes(adminOnly)
			}
		}
	}

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"log"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/database"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	db, err := database.Connect("hotel.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
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

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM contact_messages")
	db.Exec("DELETE FROM news_posts")
	db.Exec("DELETE FROM home_page_config")
	db.Exec("DELETE FROM facilities")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM date_inventory")
	db.Exec("DELETE FROM room_types")
	db.Exec("DELETE FROM users")

	log.Println("Creating staff users...")
	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@castlehotel.example",
		PasswordHash: string(adminHash),
		Name:         "Hotel Admin",
		Role:         domain.RoleAdmin,
	}
	db.Create(&admin)
	log.Println("Admin created: admin@castlehotel.example / admin123")

	managerHash, _ := bcrypt.GenerateFromPassword([]byte("manager123"), bcrypt.DefaultCost)
	manager := domain.User{
		Email:        "frontdesk@castlehotel.example",
		PasswordHash: string(managerHash),
		Name:         "Front Desk",
		Role:         domain.RoleManager,
	}
	db.Create(&manager)

	log.Println("Creating room types...")
	roomTypes := []domain.RoomType{
		{
			Name:             "Tower Double",
			Description:      "Double room in the west tower with castle grounds view.",
			WeekdayPrice:     120,
			WeekendPrice:     150,
			MaxSalesQuantity: 6,
			MaxGuests:        2,
			IsAvailable:      true,
		},
		{
			Name:             "Garden Twin",
			Description:      "Twin room facing the rose garden.",
			WeekdayPrice:     100,
			WeekendPrice:     130,
			MaxSalesQuantity: 8,
			MaxGuests:        2,
			IsAvailable:      true,
		},
		{
			Name:             "Royal Suite",
			Description:      "The largest suite, fireplace and four-poster bed.",
			WeekdayPrice:     260,
			WeekendPrice:     320,
			MaxSalesQuantity: 1,
			MaxGuests:        4,
			IsAvailable:      true,
		},
	}
	for i := range roomTypes {
		db.Create(&roomTypes[i])
	}

	log.Println("Blocking maintenance dates...")
	maintenance := domain.NormalizeDate(time.Now().AddDate(0, 1, 0))
	db.Create(&domain.DateInventoryRecord{
		RoomTypeID:       roomTypes[2].ID,
		Date:             maintenance,
		MaxSalesQuantity: roomTypes[2].MaxSalesQuantity,
		IsAvailable:      false,
		Reason:           "chimney maintenance",
	})

	log.Println("Creating facilities...")
	facilities := []domain.Facility{
		{Name: "Restaurant", Description: "Seasonal menu, dinner only.", Icon: "restaurant", SortOrder: 1, IsActive: true},
		{Name: "Free Parking", Description: "Courtyard parking for guests.", Icon: "parking", SortOrder: 2, IsActive: true},
		{Name: "Sauna", Description: "Cellar sauna, booking required.", Icon: "sauna", SortOrder: 3, IsActive: true},
	}
	for i := range facilities {
		db.Create(&facilities[i])
	}

	log.Println("Creating a sample booking...")
	checkIn := domain.NormalizeDate(time.Now().AddDate(0, 0, 14))
	checkOut := checkIn.AddDate(0, 0, 2)
	var total float64
	for _, night := range domain.NightsBetween(checkIn, checkOut) {
		total += roomTypes[0].NightlyPrice(night)
	}
	db.Create(&domain.Booking{
		ReferenceCode:  "BK-SEED0001",
		RoomTypeID:     roomTypes[0].ID,
		GuestName:      "Maria Novak",
		GuestEmail:     "maria@example.com",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
		TotalPrice:     total,
		Status:         domain.BookingConfirmed,
	})
	// Keep the ledger consistent with the seeded stay.
	for _, night := range domain.NightsBetween(checkIn, checkOut) {
		db.Create(&domain.DateInventoryRecord{
			RoomTypeID:       roomTypes[0].ID,
			Date:             night,
			MaxSalesQuantity: roomTypes[0].MaxSalesQuantity,
			BookedQuantity:   1,
			IsAvailable:      true,
		})
	}

	log.Println("Creating home page content...")
	db.Create(&domain.HomePageConfig{
		ID:           1,
		HeroTitle:    "European Castle Hotel",
		HeroSubtitle: "Sleep inside five centuries of history",
		AboutText:    "A small family-run hotel inside a restored castle.",
		ContactEmail: "reception@castlehotel.example",
		ContactPhone: "+43 1 234 5678",
		Address:      "Schlossweg 1",
	})

	db.Create(&domain.NewsPost{
		Title:       "Summer season opening",
		Body:        "The garden terrace opens for breakfast from June.",
		IsPublished: true,
	})

	log.Println("Seed complete.")
}

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" driver used below.
	_ "modernc.org/sqlite"
)

func setupBookingRepo(t *testing.T) (*BookingRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:booking_repo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Booking{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewBookingRepository(db), db
}

func seedBooking(t *testing.T, repo *BookingRepository, ref string, status domain.BookingStatus, checkIn, checkOut time.Time) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		ReferenceCode:  ref,
		RoomTypeID:     1,
		GuestName:      "Guest",
		GuestEmail:     "guest@example.com",
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: 2,
		Status:         status,
	}
	if err := repo.Create(context.Background(), b); err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	return b
}

func TestUpdateStatusFromIsCompareAndSet(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	d1 := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 11, 3, 0, 0, 0, 0, time.UTC)
	b := seedBooking(t, repo, "BK-CAS00001", domain.BookingPending, d1, d2)

	ok, err := repo.UpdateStatusFrom(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, nil)
	if err != nil {
		t.Fatalf("UpdateStatusFrom returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected CAS from the current status to win")
	}

	// Same expected-from again: the row no longer matches.
	ok, err = repo.UpdateStatusFrom(ctx, b.ID, domain.BookingPending, domain.BookingCancelled, nil)
	if err != nil {
		t.Fatalf("UpdateStatusFrom returned error: %v", err)
	}
	if ok {
		t.Fatal("expected CAS against a stale status to lose")
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Status != domain.BookingConfirmed {
		t.Fatalf("expected confirmed, got %s", got.Status)
	}
}

func TestUpdateStatusFromAppliesExtraColumns(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	d1 := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	b := seedBooking(t, repo, "BK-CAS00002", domain.BookingConfirmed, d1, d2)

	now := time.Now()
	ok, err := repo.UpdateStatusFrom(ctx, b.ID, domain.BookingConfirmed, domain.BookingCancelled, map[string]interface{}{
		"cancellation_reason": "plans changed",
		"cancelled_at":        &now,
	})
	if err != nil || !ok {
		t.Fatalf("UpdateStatusFrom failed: ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.CancellationReason != "plans changed" {
		t.Fatalf("cancellation reason not written: %q", got.CancellationReason)
	}
	if got.CancelledAt == nil {
		t.Fatal("cancelled_at not written")
	}
}

func TestCountOverlappingUsesExclusiveCheckout(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	d := func(day int) time.Time { return time.Date(2026, 11, day, 0, 0, 0, 0, time.UTC) }
	confirmed := []domain.BookingStatus{domain.BookingConfirmed}

	seedBooking(t, repo, "BK-OVLP0001", domain.BookingConfirmed, d(10), d(13))

	cnt, err := repo.CountOverlapping(ctx, 1, d(12), d(15), confirmed)
	if err != nil {
		t.Fatalf("CountOverlapping returned error: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected overlap on shared night, got %d", cnt)
	}

	// Back-to-back stays share no night: checkout day equals check-in.
	cnt, err = repo.CountOverlapping(ctx, 1, d(13), d(15), confirmed)
	if err != nil {
		t.Fatalf("CountOverlapping returned error: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("back-to-back stay counted as overlap: %d", cnt)
	}

	cnt, err = repo.CountOverlapping(ctx, 1, d(8), d(10), confirmed)
	if err != nil {
		t.Fatalf("CountOverlapping returned error: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("stay ending at check-in counted as overlap: %d", cnt)
	}

	// Status filter: pending bookings are not in the confirmed set.
	seedBooking(t, repo, "BK-OVLP0002", domain.BookingPending, d(10), d(13))
	cnt, err = repo.CountOverlapping(ctx, 1, d(10), d(13), confirmed)
	if err != nil {
		t.Fatalf("CountOverlapping returned error: %v", err)
	}
	if cnt != 1 {
		t.Fatalf("expected status filter to exclude pending, got %d", cnt)
	}
}

func TestGetByReference(t *testing.T) {
	repo, _ := setupBookingRepo(t)
	ctx := context.Background()

	d1 := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	b := seedBooking(t, repo, "BK-REF00001", domain.BookingPending, d1, d2)

	got, err := repo.GetByReference(ctx, "BK-REF00001")
	if err != nil {
		t.Fatalf("GetByReference returned error: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("expected booking %d, got %d", b.ID, got.ID)
	}

	if _, err := repo.GetByReference(ctx, "BK-MISSING1"); err == nil {
		t.Fatal("expected error for unknown reference")
	}
}

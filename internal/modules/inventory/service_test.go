package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the pure-Go "sqlite" driver used below.
	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:inventory_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	// A single connection serializes transactions, so the retry loop
	// is exercised without SQLITE_BUSY flakiness.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&domain.RoomType{}, &domain.DateInventoryRecord{}); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	return NewService(db, repository.NewInventoryRepository(db), nil, nil), db
}

func createRoomType(t *testing.T, db *gorm.DB, maxSales int) *domain.RoomType {
	t.Helper()
	rt := &domain.RoomType{
		Name:             fmt.Sprintf("Room %s", t.Name()),
		WeekdayPrice:     100,
		WeekendPrice:     150,
		MaxSalesQuantity: maxSales,
		MaxGuests:        2,
		IsAvailable:      true,
	}
	if err := db.Create(rt).Error; err != nil {
		t.Fatalf("failed to create room type: %v", err)
	}
	return rt
}

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func bookedOn(t *testing.T, db *gorm.DB, roomTypeID int64, date time.Time) int {
	t.Helper()
	var rec domain.DateInventoryRecord
	err := db.Where("room_type_id = ? AND date = ?", roomTypeID, date).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	if err != nil {
		t.Fatalf("failed to read record: %v", err)
	}
	return rec.BookedQuantity
}

func TestTryReserveIncrementsEveryNight(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 3)
	ctx := context.Background()

	recs, err := svc.TryReserve(ctx, rt.ID, day(10), day(13))
	if err != nil {
		t.Fatalf("TryReserve returned error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 nights, got %d", len(recs))
	}

	for d := 10; d < 13; d++ {
		if got := bookedOn(t, db, rt.ID, day(d)); got != 1 {
			t.Errorf("night %d: expected booked 1, got %d", d, got)
		}
	}
	// Checkout date is exclusive and must stay untouched.
	if got := bookedOn(t, db, rt.ID, day(13)); got != 0 {
		t.Errorf("checkout date consumed inventory: booked=%d", got)
	}
}

func TestTryReserveLazyRecordUsesRoomTypeDefault(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 4)

	recs, err := svc.TryReserve(context.Background(), rt.ID, day(1), day(2))
	if err != nil {
		t.Fatalf("TryReserve returned error: %v", err)
	}
	if recs[0].MaxSalesQuantity != 4 {
		t.Fatalf("expected lazily created record to inherit max 4, got %d", recs[0].MaxSalesQuantity)
	}
}

func TestTryReserveAllOrNothing(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 5)
	ctx := context.Background()

	// Saturate only the middle night of the upcoming request.
	if _, err := svc.SetMaxQuantity(ctx, rt.ID, day(11), 1); err != nil {
		t.Fatalf("SetMaxQuantity returned error: %v", err)
	}
	if _, err := svc.TryReserve(ctx, rt.ID, day(11), day(12)); err != nil {
		t.Fatalf("saturating reserve returned error: %v", err)
	}

	_, err := svc.TryReserve(ctx, rt.ID, day(10), day(13))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	// The rejected request must not have touched the earlier night.
	if got := bookedOn(t, db, rt.ID, day(10)); got != 0 {
		t.Fatalf("rejected reserve leaked a partial increment: booked=%d", got)
	}
	if got := bookedOn(t, db, rt.ID, day(11)); got != 1 {
		t.Fatalf("saturated night changed: booked=%d", got)
	}
}

func TestTryReserveRejectsBlockedDate(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 5)
	ctx := context.Background()

	if _, err := svc.SetAvailability(ctx, rt.ID, []time.Time{day(11)}, false, "renovation"); err != nil {
		t.Fatalf("SetAvailability returned error: %v", err)
	}

	_, err := svc.TryReserve(ctx, rt.ID, day(10), day(13))
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable, got %v", err)
	}
	if got := bookedOn(t, db, rt.ID, day(10)); got != 0 {
		t.Fatalf("rejected reserve leaked a partial increment: booked=%d", got)
	}

	// Unblocking clears the reason and admits again.
	recs, err := svc.SetAvailability(ctx, rt.ID, []time.Time{day(11)}, true, "")
	if err != nil {
		t.Fatalf("SetAvailability unblock returned error: %v", err)
	}
	if recs[0].Reason != "" {
		t.Fatalf("unblock must clear the reason, got %q", recs[0].Reason)
	}
	if _, err := svc.TryReserve(ctx, rt.ID, day(10), day(13)); err != nil {
		t.Fatalf("reserve after unblock returned error: %v", err)
	}
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 2)
	ctx := context.Background()

	const attempts = 4
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.TryReserve(ctx, rt.ID, day(20), day(21))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrCapacityExceeded):
		case errors.Is(err, ErrConcurrentModification):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	booked := bookedOn(t, db, rt.ID, day(20))
	if booked != successes {
		t.Fatalf("counter drifted from admissions: booked=%d successes=%d", booked, successes)
	}
	if booked > 2 {
		t.Fatalf("oversold: booked=%d max=2", booked)
	}
	if successes == 0 {
		t.Fatal("no reservation succeeded at all")
	}
}

func TestReleaseRestoresCapacityAndClampsAtZero(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 2)
	ctx := context.Background()

	if _, err := svc.TryReserve(ctx, rt.ID, day(10), day(12)); err != nil {
		t.Fatalf("TryReserve returned error: %v", err)
	}

	if err := svc.Release(ctx, rt.ID, day(10), day(12)); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	for d := 10; d < 12; d++ {
		if got := bookedOn(t, db, rt.ID, day(d)); got != 0 {
			t.Errorf("night %d: expected booked 0 after release, got %d", d, got)
		}
	}

	// A second release of the same range must clamp, never go negative.
	if err := svc.Release(ctx, rt.ID, day(10), day(12)); err != nil {
		t.Fatalf("repeated Release returned error: %v", err)
	}
	for d := 10; d < 12; d++ {
		if got := bookedOn(t, db, rt.ID, day(d)); got != 0 {
			t.Errorf("night %d: counter went negative territory, got %d", d, got)
		}
	}
}

func TestCheckAvailabilityIsAdvisory(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 1)
	ctx := context.Background()

	ok, err := svc.CheckAvailability(ctx, rt.ID, day(10), day(12))
	if err != nil {
		t.Fatalf("CheckAvailability returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected availability before any reservation")
	}

	if _, err := svc.TryReserve(ctx, rt.ID, day(11), day(12)); err != nil {
		t.Fatalf("TryReserve returned error: %v", err)
	}

	ok, err = svc.CheckAvailability(ctx, rt.ID, day(10), day(12))
	if err != nil {
		t.Fatalf("CheckAvailability returned error: %v", err)
	}
	if ok {
		t.Fatal("expected no availability once a night is full")
	}

	if _, err := svc.CheckAvailability(ctx, rt.ID, day(12), day(12)); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty range, got %v", err)
	}
}

func TestCalendarFillsUntouchedDatesWithoutPersisting(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 3)
	ctx := context.Background()

	if _, err := svc.SetMaxQuantity(ctx, rt.ID, day(2), 7); err != nil {
		t.Fatalf("SetMaxQuantity returned error: %v", err)
	}

	recs, err := svc.Calendar(ctx, rt.ID, day(1), day(3))
	if err != nil {
		t.Fatalf("Calendar returned error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 calendar entries, got %d", len(recs))
	}
	if recs[1].MaxSalesQuantity != 7 {
		t.Fatalf("persisted record not returned, max=%d", recs[1].MaxSalesQuantity)
	}
	if recs[0].MaxSalesQuantity != domain.DefaultMaxSalesQuantity || !recs[0].IsAvailable {
		t.Fatalf("gap entry must use ledger defaults, got %+v", recs[0])
	}

	var count int64
	db.Model(&domain.DateInventoryRecord{}).Where("room_type_id = ?", rt.ID).Count(&count)
	if count != 1 {
		t.Fatalf("Calendar must not persist gap dates, found %d records", count)
	}
}

func TestSetMaxQuantityRejectsNegative(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 3)

	_, err := svc.SetMaxQuantity(context.Background(), rt.ID, day(1), -1)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSetPriceOverrideRoundTrip(t *testing.T) {
	svc, db := setupTestService(t)
	rt := createRoomType(t, db, 3)
	ctx := context.Background()

	weekday := 80.0
	rec, err := svc.SetPriceOverride(ctx, rt.ID, day(5), &weekday, nil)
	if err != nil {
		t.Fatalf("SetPriceOverride returned error: %v", err)
	}
	if rec.WeekdayPrice == nil || *rec.WeekdayPrice != 80 {
		t.Fatalf("override not applied: %+v", rec)
	}
	if got := rec.NightlyPrice(rt); got != 80 {
		t.Fatalf("expected overridden nightly price 80, got %v", got)
	}

	// Clearing falls back to the room type base price.
	rec, err = svc.SetPriceOverride(ctx, rt.ID, day(5), nil, nil)
	if err != nil {
		t.Fatalf("SetPriceOverride clear returned error: %v", err)
	}
	if got := rec.NightlyPrice(rt); got != rt.WeekdayPrice {
		t.Fatalf("expected base price %v after clear, got %v", rt.WeekdayPrice, got)
	}
}

type stubBookingReader struct {
	count int64
}

func (s stubBookingReader) CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, statuses []domain.BookingStatus) (int64, error) {
	return s.count, nil
}

func TestOverlapGuardRejectsSaturatedRange(t *testing.T) {
	_, db := setupTestService(t)
	rt := createRoomType(t, db, 2)
	ctx := context.Background()

	ledger := repository.NewInventoryRepository(db)

	full := NewService(db, ledger, stubBookingReader{count: 2}, nil)
	_, err := full.TryReserve(ctx, rt.ID, day(10), day(12))
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded from overlap guard, got %v", err)
	}
	// The rejection rolled back, so no record may survive.
	var count int64
	db.Model(&domain.DateInventoryRecord{}).Where("room_type_id = ?", rt.ID).Count(&count)
	if count != 0 {
		t.Fatalf("rejected reserve persisted %d records", count)
	}

	loose := NewService(db, ledger, stubBookingReader{count: 1}, nil)
	if _, err := loose.TryReserve(ctx, rt.ID, day(10), day(12)); err != nil {
		t.Fatalf("expected admission with headroom, got %v", err)
	}
}

func TestLockContentionClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres serialization_failure", &pgconn.PgError{Code: "40001"}, true},
		{"postgres deadlock_detected", &pgconn.PgError{Code: "40P01"}, true},
		{"postgres lock_not_available", &pgconn.PgError{Code: "55P03"}, true},
		{"wrapped postgres deadlock", fmt.Errorf("reserve: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"postgres unique_violation", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite busy", errors.New("database is locked (5) (SQLITE_BUSY)"), true},
		{"sqlite table locked", errors.New("database table is locked"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isLockContention(tc.err); got != tc.want {
				t.Fatalf("isLockContention(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

package inventory

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	// reserveAttempts bounds the retry loop around the reservation
	// transaction; exhausting it surfaces ErrConcurrentModification.
	reserveAttempts = 5
	retryBackoff    = 20 * time.Millisecond
)

// Service is the admission controller: the only component allowed to
// decide whether a stay may consume capacity and to perform the
// all-nights-or-nothing reservation.
type Service struct {
	db       *gorm.DB
	ledger   *repository.InventoryRepository
	bookings BookingReader
	notifs   AvailabilityNotifier
}

func NewService(db *gorm.DB, ledger *repository.InventoryRepository, bookings BookingReader, notifs AvailabilityNotifier) *Service {
	return &Service{
		db:       db,
		ledger:   ledger,
		bookings: bookings,
		notifs:   notifs,
	}
}

// TryReserve admits or rejects a stay over [checkIn, checkOut) and, on
// admit, increments bookedQuantity for every night as one atomic unit.
// Every record in the range is locked before the re-check, so two
// concurrent reservations for the same nights serialize; a rejected
// request leaves no counter touched. Returns the post-increment
// records for the stay.
func (s *Service) TryReserve(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) ([]domain.DateInventoryRecord, error) {
	nights := domain.NightsBetween(checkIn, checkOut)
	if len(nights) == 0 {
		return nil, ErrValidation
	}

	var recs []domain.DateInventoryRecord

	for attempt := 0; attempt < reserveAttempts; attempt++ {
		recs = recs[:0]

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, night := range nights {
				var rec domain.DateInventoryRecord
				if err := s.ledger.GetOrCreateForUpdate(tx, roomTypeID, night, &rec); err != nil {
					return err
				}
				if !rec.IsAvailable {
					return ErrRoomUnavailable
				}
				if rec.BookedQuantity >= rec.MaxSalesQuantity {
					return ErrCapacityExceeded
				}
				recs = append(recs, rec)
			}

			if err := s.checkConfirmedOverlap(ctx, roomTypeID, checkIn, checkOut, recs); err != nil {
				return err
			}

			for i := range recs {
				recs[i].BookedQuantity++
				if err := tx.Model(&domain.DateInventoryRecord{}).
					Where("id = ?", recs[i].ID).
					Update("booked_quantity", recs[i].BookedQuantity).Error; err != nil {
					return err
				}
			}
			return nil
		})

		if err == nil {
			s.notifyAll(roomTypeID, recs)
			return recs, nil
		}
		if errors.Is(err, ErrRoomUnavailable) || errors.Is(err, ErrCapacityExceeded) {
			return nil, err
		}
		if !isLockContention(err) {
			return nil, err
		}

		log.Printf("inventory_reserve_retry room_type_id=%d attempt=%d error=%q", roomTypeID, attempt+1, err)
		time.Sleep(retryBackoff << attempt)
	}

	return nil, ErrConcurrentModification
}

// checkConfirmedOverlap is the secondary guard from the booking table:
// the counters track how many units are consumed, not which booking
// holds which unit, so a room type whose tightest night is already
// saturated by confirmed stays is rejected even before the increment.
// Interval overlap uses exclusive checkout on both sides.
func (s *Service) checkConfirmedOverlap(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, recs []domain.DateInventoryRecord) error {
	if s.bookings == nil {
		return nil
	}

	minMax := recs[0].MaxSalesQuantity
	for _, rec := range recs[1:] {
		if rec.MaxSalesQuantity < minMax {
			minMax = rec.MaxSalesQuantity
		}
	}

	confirmed := []domain.BookingStatus{
		domain.BookingConfirmed,
		domain.BookingPendingPayment,
		domain.BookingPaid,
		domain.BookingCashOnSite,
	}
	cnt, err := s.bookings.CountOverlapping(ctx, roomTypeID, domain.NormalizeDate(checkIn), domain.NormalizeDate(checkOut), confirmed)
	if err != nil {
		return err
	}
	if cnt >= int64(minMax) {
		return ErrCapacityExceeded
	}
	return nil
}

// Release decrements bookedQuantity by one for every night of the
// stay, floored at zero, inside one transaction mirroring TryReserve:
// a failed release leaves every counter untouched, so the caller can
// retry it as a unit. Missing records are created and stay at zero.
// Idempotency per booking is the caller's job (the status CAS in the
// booking lifecycle).
func (s *Service) Release(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) error {
	nights := domain.NightsBetween(checkIn, checkOut)
	if len(nights) == 0 {
		return ErrValidation
	}

	var recs []domain.DateInventoryRecord

	for attempt := 0; attempt < reserveAttempts; attempt++ {
		recs = recs[:0]

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, night := range nights {
				var rec domain.DateInventoryRecord
				if err := s.ledger.GetOrCreateForUpdate(tx, roomTypeID, night, &rec); err != nil {
					return err
				}
				if rec.BookedQuantity > 0 {
					rec.BookedQuantity--
					if err := tx.Model(&domain.DateInventoryRecord{}).
						Where("id = ?", rec.ID).
						Update("booked_quantity", rec.BookedQuantity).Error; err != nil {
						return err
					}
				}
				recs = append(recs, rec)
			}
			return nil
		})

		if err == nil {
			s.notifyAll(roomTypeID, recs)
			return nil
		}
		if !isLockContention(err) {
			return err
		}

		log.Printf("inventory_release_retry room_type_id=%d attempt=%d error=%q", roomTypeID, attempt+1, err)
		time.Sleep(retryBackoff << attempt)
	}

	return ErrConcurrentModification
}

// CheckAvailability is the advisory, non-reserving read used by the
// public "can I book this?" query. It can go stale the moment it
// returns; only TryReserve is authoritative.
func (s *Service) CheckAvailability(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time) (bool, error) {
	nights := domain.NightsBetween(checkIn, checkOut)
	if len(nights) == 0 {
		return false, ErrValidation
	}

	for _, night := range nights {
		rec, err := s.ledger.GetOrCreate(ctx, roomTypeID, night)
		if err != nil {
			return false, err
		}
		if !rec.IsAvailable || rec.BookedQuantity >= rec.MaxSalesQuantity {
			return false, nil
		}
	}
	return true, nil
}

// Calendar returns one record per date in [from, to] for rendering;
// dates never touched by any operation are filled in with ledger
// defaults without being persisted.
func (s *Service) Calendar(ctx context.Context, roomTypeID int64, from, to time.Time) ([]domain.DateInventoryRecord, error) {
	existing, err := s.ledger.Query(ctx, roomTypeID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[time.Time]domain.DateInventoryRecord, len(existing))
	for _, rec := range existing {
		byDate[domain.NormalizeDate(rec.Date)] = rec
	}

	var out []domain.DateInventoryRecord
	for d := domain.NormalizeDate(from); !d.After(domain.NormalizeDate(to)); d = d.AddDate(0, 0, 1) {
		if rec, ok := byDate[d]; ok {
			out = append(out, rec)
			continue
		}
		out = append(out, domain.DateInventoryRecord{
			RoomTypeID:       roomTypeID,
			Date:             d,
			MaxSalesQuantity: domain.DefaultMaxSalesQuantity,
			IsAvailable:      true,
		})
	}
	return out, nil
}

// SetAvailability applies an administrative hard block or unblock.
func (s *Service) SetAvailability(ctx context.Context, roomTypeID int64, dates []time.Time, isAvailable bool, reason string) ([]domain.DateInventoryRecord, error) {
	recs, err := s.ledger.SetAdminAvailability(ctx, roomTypeID, dates, isAvailable, reason)
	if err != nil {
		return nil, err
	}
	s.notifyAll(roomTypeID, recs)
	return recs, nil
}

func (s *Service) SetMaxQuantity(ctx context.Context, roomTypeID int64, date time.Time, n int) (*domain.DateInventoryRecord, error) {
	if n < 0 {
		return nil, ErrValidation
	}
	rec, err := s.ledger.SetMaxQuantity(ctx, roomTypeID, date, n)
	if err != nil {
		return nil, err
	}
	s.notify(roomTypeID, *rec)
	return rec, nil
}

func (s *Service) SetPriceOverride(ctx context.Context, roomTypeID int64, date time.Time, weekdayPrice, weekendPrice *float64) (*domain.DateInventoryRecord, error) {
	return s.ledger.SetPriceOverride(ctx, roomTypeID, date, weekdayPrice, weekendPrice)
}

func (s *Service) notify(roomTypeID int64, rec domain.DateInventoryRecord) {
	if s.notifs != nil {
		s.notifs.NotifyAvailabilityChanged(roomTypeID, rec)
	}
}

func (s *Service) notifyAll(roomTypeID int64, recs []domain.DateInventoryRecord) {
	for _, rec := range recs {
		s.notify(roomTypeID, rec)
	}
}

// isLockContention classifies driver errors that mean "another
// transaction holds the rows". Postgres errors carry an SQLSTATE via
// pgconn: serialization_failure, deadlock_detected and
// lock_not_available. SQLite only surfaces busy/locked messages.
func isLockContention(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "busy")
}

package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository is the single source of truth for per-night
// capacity and consumption counters. Records are created lazily and
// never deleted; a missing record is never an error.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// DB exposes the handle so the admission controller can span one
// transaction over the whole date range of a reservation.
func (r *InventoryRepository) DB() *gorm.DB { return r.db }

// GetOrCreate returns the record for (roomTypeID, date), creating it
// with ledger defaults on first touch. Safe under concurrent callers:
// the unique (room_type_id, date) index makes the create race lose to
// a re-fetch instead of a duplicate row.
func (r *InventoryRepository) GetOrCreate(ctx context.Context, roomTypeID int64, date time.Time) (*domain.DateInventoryRecord, error) {
	var rec domain.DateInventoryRecord
	err := r.getOrCreate(r.db.WithContext(ctx), roomTypeID, date, &rec, false)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOrCreateForUpdate is the transactional variant: it takes a
// row-level lock on the record inside the caller's transaction so the
// check-then-increment of a reservation cannot race.
func (r *InventoryRepository) GetOrCreateForUpdate(tx *gorm.DB, roomTypeID int64, date time.Time, rec *domain.DateInventoryRecord) error {
	return r.getOrCreate(tx, roomTypeID, date, rec, true)
}

func (r *InventoryRepository) getOrCreate(tx *gorm.DB, roomTypeID int64, date time.Time, rec *domain.DateInventoryRecord, forUpdate bool) error {
	date = domain.NormalizeDate(date)

	q := tx
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Where("room_type_id = ? AND date = ?", roomTypeID, date).First(rec).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	*rec = domain.DateInventoryRecord{
		RoomTypeID:       roomTypeID,
		Date:             date,
		MaxSalesQuantity: r.defaultMaxFor(tx, roomTypeID),
		BookedQuantity:   0,
		IsAvailable:      true,
	}
	if err := tx.Create(rec).Error; err != nil {
		if isUniqueConstraintError(err) {
			return q.Where("room_type_id = ? AND date = ?", roomTypeID, date).First(rec).Error
		}
		return err
	}
	return nil
}

// defaultMaxFor resolves the initial capacity for a lazily created
// record: the room type's configured default, or the ledger default
// when the room type has none.
func (r *InventoryRepository) defaultMaxFor(tx *gorm.DB, roomTypeID int64) int {
	var rt domain.RoomType
	if err := tx.Select("max_sales_quantity").First(&rt, roomTypeID).Error; err != nil {
		return domain.DefaultMaxSalesQuantity
	}
	if rt.MaxSalesQuantity <= 0 {
		return domain.DefaultMaxSalesQuantity
	}
	return rt.MaxSalesQuantity
}

// AdjustBooked applies bookedQuantity += delta as a transactional
// read-modify-write, floored at zero. Repeated releases therefore
// never drive the counter negative. The upper bound is deliberately
// not enforced here; capacity is checked range-wide before the
// increment by the admission controller.
func (r *InventoryRepository) AdjustBooked(ctx context.Context, roomTypeID int64, date time.Time, delta int) (*domain.DateInventoryRecord, error) {
	var rec domain.DateInventoryRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.GetOrCreateForUpdate(tx, roomTypeID, date, &rec); err != nil {
			return err
		}

		next := rec.BookedQuantity + delta
		if next < 0 {
			next = 0
		}
		if next == rec.BookedQuantity {
			return nil
		}

		rec.BookedQuantity = next
		return tx.Model(&domain.DateInventoryRecord{}).
			Where("id = ?", rec.ID).
			Update("booked_quantity", next).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetAdminAvailability applies an administrative hard block (or
// unblock) to each given date. It is independent of quantity and does
// not touch booked counters.
func (r *InventoryRepository) SetAdminAvailability(ctx context.Context, roomTypeID int64, dates []time.Time, isAvailable bool, reason string) ([]domain.DateInventoryRecord, error) {
	out := make([]domain.DateInventoryRecord, 0, len(dates))

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range dates {
			var rec domain.DateInventoryRecord
			if err := r.GetOrCreateForUpdate(tx, roomTypeID, d, &rec); err != nil {
				return err
			}

			rec.IsAvailable = isAvailable
			rec.Reason = reason
			if isAvailable {
				rec.Reason = ""
			}
			if err := tx.Model(&domain.DateInventoryRecord{}).
				Where("id = ?", rec.ID).
				Updates(map[string]interface{}{
					"is_available": rec.IsAvailable,
					"reason":       rec.Reason,
				}).Error; err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetMaxQuantity overrides the per-night capacity for one date.
func (r *InventoryRepository) SetMaxQuantity(ctx context.Context, roomTypeID int64, date time.Time, n int) (*domain.DateInventoryRecord, error) {
	var rec domain.DateInventoryRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.GetOrCreateForUpdate(tx, roomTypeID, date, &rec); err != nil {
			return err
		}
		rec.MaxSalesQuantity = n
		return tx.Model(&domain.DateInventoryRecord{}).
			Where("id = ?", rec.ID).
			Update("max_sales_quantity", n).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetPriceOverride sets per-date price overrides; a nil price clears
// the override back to the room type base price.
func (r *InventoryRepository) SetPriceOverride(ctx context.Context, roomTypeID int64, date time.Time, weekdayPrice, weekendPrice *float64) (*domain.DateInventoryRecord, error) {
	var rec domain.DateInventoryRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.GetOrCreateForUpdate(tx, roomTypeID, date, &rec); err != nil {
			return err
		}
		rec.WeekdayPrice = weekdayPrice
		rec.WeekendPrice = weekendPrice
		return tx.Model(&domain.DateInventoryRecord{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"weekday_price": weekdayPrice,
				"weekend_price": weekendPrice,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Query returns the existing records for [from, to] ordered by date.
// Dates without a record simply have no row yet; callers render them
// with defaults.
func (r *InventoryRepository) Query(ctx context.Context, roomTypeID int64, from, to time.Time) ([]domain.DateInventoryRecord, error) {
	var recs []domain.DateInventoryRecord
	err := r.db.WithContext(ctx).
		Where("room_type_id = ? AND date >= ? AND date <= ?", roomTypeID, domain.NormalizeDate(from), domain.NormalizeDate(to)).
		Order("date asc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Postgres: unique_violation.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	// SQLite surfaces no SQLSTATE; fall back to the driver message.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

package repository

import (
	"context"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, ref string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("reference_code = ?", ref).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, status domain.BookingStatus, limit, offset int) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.Booking
	if err := q.Offset(offset).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatusFrom performs the compare-and-set that guards every
// lifecycle transition: the row is only updated when its status still
// equals from. Returns false when another transition won the race (or
// the booking no longer exists).
func (r *BookingRepository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Booking{}, id).Error
}

// CountOverlapping counts bookings of the room type in the given
// statuses whose stay intersects [checkIn, checkOut). Checkout day is
// exclusive on both sides, so back-to-back stays do not overlap.
func (r *BookingRepository) CountOverlapping(ctx context.Context, roomTypeID int64, checkIn, checkOut time.Time, statuses []domain.BookingStatus) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("room_type_id = ? AND status IN ?", roomTypeID, statuses).
		Where("check_out_date > ? AND check_in_date < ?", checkIn, checkOut).
		Count(&cnt).Error
	if err != nil {
		return 0, err
	}
	return cnt, nil
}

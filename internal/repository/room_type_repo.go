package repository

import (
	"context"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"gorm.io/gorm"
)

type RoomTypeRepository struct {
	db *gorm.DB
}

func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

func (r *RoomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

func (r *RoomTypeRepository) Update(ctx context.Context, rt *domain.RoomType) error {
	return r.db.WithContext(ctx).Save(rt).Error
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt domain.RoomType
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *RoomTypeRepository) List(ctx context.Context, onlyAvailable bool) ([]domain.RoomType, error) {
	q := r.db.WithContext(ctx).Model(&domain.RoomType{})
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}

	var out []domain.RoomType
	if err := q.Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

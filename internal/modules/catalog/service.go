package catalog

import (
	"context"
	"errors"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"
	pkgvalidator "github.com/alex2691229-wq/european-castle-hotel-sub001/internal/pkg/validator"
	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/repository"

	"gorm.io/gorm"
)

// Service owns the administrative catalog: room types and hotel
// facilities. Room types are read-only to the booking flow.
type Service struct {
	roomTypes *repository.RoomTypeRepository
	db        *gorm.DB
}

func NewService(roomTypes *repository.RoomTypeRepository, db *gorm.DB) *Service {
	return &Service{roomTypes: roomTypes, db: db}
}

func (s *Service) CreateRoomType(ctx context.Context, req RoomTypeRequest) (*domain.RoomType, error) {
	rt := &domain.RoomType{
		Name:             req.Name,
		Description:      req.Description,
		WeekdayPrice:     req.WeekdayPrice,
		WeekendPrice:     req.WeekendPrice,
		MaxSalesQuantity: req.MaxSalesQuantity,
		MaxGuests:        req.MaxGuests,
		IsAvailable:      true,
	}
	if req.IsAvailable != nil {
		rt.IsAvailable = *req.IsAvailable
	}
	if rt.MaxSalesQuantity == 0 {
		rt.MaxSalesQuantity = domain.DefaultMaxSalesQuantity
	}

	if fields := pkgvalidator.Validate(rt); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.roomTypes.Create(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) UpdateRoomType(ctx context.Context, id int64, req RoomTypeRequest) (*domain.RoomType, error) {
	rt, err := s.roomTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rt.Name = req.Name
	rt.Description = req.Description
	rt.WeekdayPrice = req.WeekdayPrice
	rt.WeekendPrice = req.WeekendPrice
	rt.MaxSalesQuantity = req.MaxSalesQuantity
	rt.MaxGuests = req.MaxGuests
	if req.IsAvailable != nil {
		rt.IsAvailable = *req.IsAvailable
	}

	if fields := pkgvalidator.Validate(rt); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	if err := s.roomTypes.Update(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) GetRoomType(ctx context.Context, id int64) (*domain.RoomType, error) {
	rt, err := s.roomTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rt, nil
}

func (s *Service) ListRoomTypes(ctx context.Context, onlyAvailable bool) ([]domain.RoomType, error) {
	return s.roomTypes.List(ctx, onlyAvailable)
}

func (s *Service) CreateFacility(ctx context.Context, req FacilityRequest) (*domain.Facility, error) {
	f := &domain.Facility{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		IsActive:    true,
	}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) UpdateFacility(ctx context.Context, id int64, req FacilityRequest) (*domain.Facility, error) {
	var f domain.Facility
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	f.Name = req.Name
	f.Description = req.Description
	f.Icon = req.Icon
	f.SortOrder = req.SortOrder
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Service) DeleteFacility(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&domain.Facility{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListFacilities(ctx context.Context, onlyActive bool) ([]domain.Facility, error) {
	q := s.db.WithContext(ctx).Model(&domain.Facility{})
	if onlyActive {
		q = q.Where("is_active = ?", true)
	}

	var out []domain.Facility
	if err := q.Order("sort_order asc, id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

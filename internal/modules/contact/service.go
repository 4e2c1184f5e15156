package contact

import (
	"context"
	"errors"
	"time"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("message not found")

// Service stores contact-form messages and lets staff work through
// them.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type SubmitRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*domain.ContactMessage, error) {
	msg := &domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) List(ctx context.Context, unhandledOnly bool, limit, offset int) ([]domain.ContactMessage, error) {
	q := s.db.WithContext(ctx).Model(&domain.ContactMessage{})
	if unhandledOnly {
		q = q.Where("handled_at IS NULL")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.ContactMessage
	if err := q.Offset(offset).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) MarkHandled(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	if err := s.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	msg.HandledAt = &now
	if err := s.db.WithContext(ctx).Save(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

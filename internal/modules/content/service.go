package content

import (
	"context"
	"errors"

	"github.com/alex2691229-wq/european-castle-hotel-sub001/internal/domain"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

// Service owns the public site content: news posts and the single-row
// home page configuration.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type NewsRequest struct {
	Title       string `json:"title" binding:"required"`
	Body        string `json:"body"`
	CoverImage  string `json:"cover_image"`
	IsPublished *bool  `json:"is_published"`
}

type HomePageRequest struct {
	HeroTitle    string `json:"hero_title"`
	HeroSubtitle string `json:"hero_subtitle"`
	AboutText    string `json:"about_text"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	Address      string `json:"address"`
}

func (s *Service) CreateNews(ctx context.Context, req NewsRequest) (*domain.NewsPost, error) {
	post := &domain.NewsPost{
		Title:      req.Title,
		Body:       req.Body,
		CoverImage: req.CoverImage,
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Service) UpdateNews(ctx context.Context, id int64, req NewsRequest) (*domain.NewsPost, error) {
	var post domain.NewsPost
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	post.Title = req.Title
	post.Body = req.Body
	post.CoverImage = req.CoverImage
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Service) DeleteNews(ctx context.Context, id int64) error {
	tx := s.db.WithContext(ctx).Delete(&domain.NewsPost{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListNews(ctx context.Context, publishedOnly bool, limit, offset int) ([]domain.NewsPost, error) {
	q := s.db.WithContext(ctx).Model(&domain.NewsPost{})
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []domain.NewsPost
	if err := q.Offset(offset).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetHomePage returns the active configuration, creating an empty row
// on first access.
func (s *Service) GetHomePage(ctx context.Context) (*domain.HomePageConfig, error) {
	var cfg domain.HomePageConfig
	err := s.db.WithContext(ctx).First(&cfg, 1).Error
	if err == nil {
		return &cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cfg = domain.HomePageConfig{ID: 1}
	if err := s.db.WithContext(ctx).Create(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *Service) UpdateHomePage(ctx context.Context, req HomePageRequest) (*domain.HomePageConfig, error) {
	cfg, err := s.GetHomePage(ctx)
	if err != nil {
		return nil, err
	}

	cfg.HeroTitle = req.HeroTitle
	cfg.HeroSubtitle = req.HeroSubtitle
	cfg.AboutText = req.AboutText
	cfg.ContactEmail = req.ContactEmail
	cfg.ContactPhone = req.ContactPhone
	cfg.Address = req.Address

	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

package domain

import "time"

type NewsPost struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255" validate:"required"`
	Body        string    `json:"body" gorm:"type:text"`
	CoverImage  string    `json:"cover_image,omitempty" gorm:"size:512"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (NewsPost) TableName() string { return "news_posts" }

// HomePageConfig is a single-row table holding the public landing page
// content. The row with ID 1 is the active configuration.
type HomePageConfig struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	HeroTitle    string    `json:"hero_title" gorm:"size:255"`
	HeroSubtitle string    `json:"hero_subtitle" gorm:"size:512"`
	AboutText    string    `json:"about_text" gorm:"type:text"`
	ContactEmail string    `json:"contact_email" gorm:"size:255"`
	ContactPhone string    `json:"contact_phone" gorm:"size:64"`
	Address      string    `json:"address" gorm:"size:512"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (HomePageConfig) TableName() string { return "home_page_config" }

type Facility struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:120" validate:"required"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Icon        string    `json:"icon,omitempty" gorm:"size:120"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Facility) TableName() string { return "facilities" }

type ContactMessage struct {
	ID        int64      `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"size:120" validate:"required"`
	Email     string     `json:"email" gorm:"size:255" validate:"required,email"`
	Subject   string     `json:"subject,omitempty" gorm:"size:255"`
	Message   string     `json:"message" gorm:"type:text" validate:"required"`
	HandledAt *time.Time `json:"handled_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;not null;index;column:created_by" json:"created_by"`
	Creator          *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatedBy;references:ID" json:"creator,omitempty"`
	Title            string         `gorm:"not null;column:title" json:"title"`
	Category         string         `gorm:"not null;index;column:category" json:"category"`
	ShortDescription string         `gorm:"column:short_description" json:"short_description"`
	Description      string         `gorm:"column:description" json:"description"`
	Content          string         `gorm:"column:content" json:"content"`
	ThumbnailURL     string         `gorm:"column:thumbnail_url" json:"thumbnail_url"`
	IsPublished      bool           `gorm:"not null;default:false;column:is_published" json:"is_published"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

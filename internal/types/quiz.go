package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Quiz attaches to a course broadly, or to one lesson when LessonID is set.
type Quiz struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID       uuid.UUID      `gorm:"type:uuid;not null;index;column:course_id" json:"course_id"`
	Course         *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	LessonID       *uuid.UUID     `gorm:"type:uuid;index;column:lesson_id" json:"lesson_id,omitempty"`
	Lesson         *Lesson        `gorm:"constraint:OnDelete:SET NULL;foreignKey:LessonID;references:ID" json:"-"`
	Title          string         `gorm:"not null;column:title" json:"title"`
	Description    string         `gorm:"column:description" json:"description"`
	QuestionsCount int            `gorm:"not null;default:0;column:questions_count" json:"questions_count"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Quiz) TableName() string { return "quiz" }

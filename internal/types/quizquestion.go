package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

func ValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeShortAnswer:
		return true
	default:
		return false
	}
}

// CorrectAnswer is stored as a string and compared by string equality at
// scoring time. Multiple-choice answers are the selected option index
// rendered as a string ("0", "1", ...), matching what clients submit.
type QuizQuestion struct {
	ID            uuid.UUID                   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID        uuid.UUID                   `gorm:"type:uuid;not null;index;column:quiz_id" json:"quiz_id"`
	Quiz          *Quiz                       `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	Type          string                      `gorm:"not null;column:type" json:"type"`
	Text          string                      `gorm:"column:text" json:"text"`
	Options       datatypes.JSONSlice[string] `gorm:"column:options" json:"options,omitempty"`
	CorrectAnswer string                      `gorm:"column:correct_answer" json:"-"`
	Points        int                         `gorm:"not null;default:0;column:points" json:"points"`
	Explanation   string                      `gorm:"column:explanation" json:"-"`
	Position      int                         `gorm:"not null;default:0;column:position" json:"position"`
	CreatedAt     time.Time                   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt     gorm.DeletedAt              `gorm:"index" json:"-"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

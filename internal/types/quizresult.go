package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuestionResult is the stored per-question detail of a submission.
type QuestionResult struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	Points        int    `json:"points"`
}

// QuizResult keeps only the latest submission per (user, quiz); a retake
// overwrites the row rather than accumulating attempts.
type QuizResult struct {
	ID          uuid.UUID                                     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID                                     `gorm:"type:uuid;not null;index:idx_user_quiz,unique" json:"user_id"`
	User        *User                                         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	QuizID      uuid.UUID                                     `gorm:"type:uuid;not null;index:idx_user_quiz,unique" json:"quiz_id"`
	Quiz        *Quiz                                         `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	Score       int                                           `gorm:"not null;default:0;column:score" json:"score"`
	TotalPoints int                                           `gorm:"not null;default:0;column:total_points" json:"total_points"`
	Details     datatypes.JSONType[map[string]QuestionResult] `gorm:"column:details" json:"details"`
	CompletedAt time.Time                                     `gorm:"not null;column:completed_at" json:"completed_at"`
	CreatedAt   time.Time                                     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time                                     `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuizResult) TableName() string { return "quiz_result" }

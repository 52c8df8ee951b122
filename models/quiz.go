package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuizStatusInProgress = "in_progress"
	QuizStatusCompleted  = "completed"
	QuizStatusAbandoned  = "abandoned"
)

// Quiz is an immutable snapshot of generated questions for one deck and
// user. Question content and option ordering are fixed at creation;
// submitting answers only fills in the grading fields.
type Quiz struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	DeckID         string         `json:"deck_id" gorm:"index;not null"`
	UserID         string         `json:"user_id" gorm:"index;not null"`
	Title          string         `json:"title"`
	TotalQuestions int            `json:"total_questions" gorm:"not null"`
	CorrectAnswers int            `json:"correct_answers"`
	Score          int            `json:"score"` // percentage, rounded
	Status         string         `json:"status" gorm:"not null;default:'in_progress'"`
	StartedAt      time.Time      `json:"started_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []QuizQuestion `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type QuizQuestion struct {
	ID         string `json:"id" gorm:"primaryKey"`
	QuizID     string `json:"quiz_id" gorm:"index;not null"`
	QuestionID string `json:"question_id" gorm:"not null"` // source flashcard ID
	Question   string `json:"question" gorm:"not null"`
	Position   int    `json:"position" gorm:"not null"`

	// Options is the fixed, already shuffled option list as a JSON array
	// of strings.
	Options datatypes.JSON `json:"options" gorm:"not null"`

	CorrectOptionIndex  int  `json:"correct_option_index" gorm:"not null"`
	SelectedOptionIndex int  `json:"selected_option_index" gorm:"not null;default:-1"`
	IsCorrect           bool `json:"is_correct" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"
)

// ReviewState is the spaced-repetition record for one (user, flashcard)
// pair. It is created lazily on the first review and updated in place on
// every subsequent one.
type ReviewState struct {
	ID          string `json:"id" gorm:"primaryKey"`
	UserID      string `json:"user_id" gorm:"uniqueIndex:idx_review_user_card;not null"`
	FlashcardID string `json:"flashcard_id" gorm:"uniqueIndex:idx_review_user_card;not null"`
	DeckID      string `json:"deck_id" gorm:"index;not null"`

	CorrectCount       int        `json:"correct_count"`
	IncorrectCount     int        `json:"incorrect_count"`
	ConsecutiveCorrect int        `json:"consecutive_correct"`
	EaseFactor         float64    `json:"ease_factor" gorm:"not null;default:2.5"`
	Interval           int        `json:"interval" gorm:"not null;default:1"` // days
	NextReviewDate     *time.Time `json:"next_review_date"`

	LastReviewed    *time.Time `json:"last_reviewed"`
	LastReviewScore int        `json:"last_review_score"`

	// Version guards the read-modify-write cycle: updates are conditional
	// on the version read, so concurrent reviews of the same card cannot
	// silently drop each other's counter increments.
	Version int64 `json:"-" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

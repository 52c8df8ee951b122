package models

import (
	"time"

	"gorm.io/gorm"
)

type Flashcard struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	DeckID     string         `json:"deck_id" gorm:"index;not null"`
	Front      string         `json:"front" gorm:"not null"` // question side
	Back       string         `json:"back" gorm:"not null"`  // answer side
	OrderIndex int            `json:"order_index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Deck Deck `json:"deck,omitempty"`
}

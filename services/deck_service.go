package services

import (
	"errors"
	"fmt"

	"flashdeck/apperrors"
	"flashdeck/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DeckService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDeckService(db *gorm.DB, log *zap.Logger) *DeckService {
	return &DeckService{db: db, log: log}
}

type DeckRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *DeckService) CreateDeck(userID string, req *DeckRequest) (*models.Deck, error) {
	deck := models.Deck{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.db.Create(&deck).Error; err != nil {
		return nil, err
	}
	return &deck, nil
}

func (s *DeckService) GetUserDecks(userID string) ([]models.Deck, error) {
	var decks []models.Deck
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&decks).Error
	return decks, err
}

func (s *DeckService) GetDeckByID(deckID, userID string) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.Where("id = ? AND user_id = ?", deckID, userID).
		Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
			return db.Order("flashcards.order_index")
		}).
		First(&deck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("deck %s: %w", deckID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

func (s *DeckService) UpdateDeck(deckID, userID string, req *DeckRequest) (*models.Deck, error) {
	deck, err := s.GetDeckByID(deckID, userID)
	if err != nil {
		return nil, err
	}

	deck.Name = req.Name
	deck.Description = req.Description
	if err := s.db.Save(deck).Error; err != nil {
		return nil, err
	}
	return deck, nil
}

// DeleteDeck removes a deck with everything hanging off it: flashcards,
// review states, and the quizzes generated from it. The scheduler never
// deletes review states itself, so the cascade lives here.
func (s *DeckService) DeleteDeck(deckID, userID string) error {
	if _, err := s.GetDeckByID(deckID, userID); err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("deck_id = ?", deckID).Delete(&models.ReviewState{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	err := tx.Where("quiz_id IN (?)",
		tx.Model(&models.Quiz{}).Select("id").Where("deck_id = ?", deckID),
	).Delete(&models.QuizQuestion{}).Error
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("deck_id = ?", deckID).Delete(&models.Quiz{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("deck_id = ?", deckID).Delete(&models.Flashcard{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Deck{}, "id = ?", deckID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.log.Info("deleted deck", zap.String("deck_id", deckID), zap.String("user_id", userID))
	return nil
}

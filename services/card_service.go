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

type CardService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCardService(db *gorm.DB, log *zap.Logger) *CardService {
	return &CardService{db: db, log: log}
}

type CardRequest struct {
	Front      string `json:"front" binding:"required"`
	Back       string `json:"back" binding:"required"`
	OrderIndex int    `json:"order_index"`
}

func (s *CardService) CreateCard(deckID, userID string, req *CardRequest) (*models.Flashcard, error) {
	if err := s.checkDeckOwner(deckID, userID); err != nil {
		return nil, err
	}

	card := models.Flashcard{
		ID:         uuid.NewString(),
		DeckID:     deckID,
		Front:      req.Front,
		Back:       req.Back,
		OrderIndex: req.OrderIndex,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *CardService) GetDeckCards(deckID, userID string) ([]models.Flashcard, error) {
	if err := s.checkDeckOwner(deckID, userID); err != nil {
		return nil, err
	}

	var cards []models.Flashcard
	err := s.db.Where("deck_id = ?", deckID).
		Order("order_index").
		Find(&cards).Error
	return cards, err
}

func (s *CardService) UpdateCard(cardID, userID string, req *CardRequest) (*models.Flashcard, error) {
	card, err := s.ownedCard(cardID, userID)
	if err != nil {
		return nil, err
	}

	card.Front = req.Front
	card.Back = req.Back
	card.OrderIndex = req.OrderIndex
	if err := s.db.Save(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

// DeleteCard removes a flashcard together with its review states.
func (s *CardService) DeleteCard(cardID, userID string) error {
	card, err := s.ownedCard(cardID, userID)
	if err != nil {
		return err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("flashcard_id = ?", cardID).Delete(&models.ReviewState{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Flashcard{}, "id = ?", cardID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.log.Info("deleted flashcard",
		zap.String("flashcard_id", cardID),
		zap.String("deck_id", card.DeckID))
	return nil
}

func (s *CardService) checkDeckOwner(deckID, userID string) error {
	var deck models.Deck
	err := s.db.Where("id = ? AND user_id = ?", deckID, userID).First(&deck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("deck %s: %w", deckID, apperrors.ErrNotFound)
	}
	return err
}

func (s *CardService) ownedCard(cardID, userID string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := s.db.Where("id = ?", cardID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("flashcard %s: %w", cardID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkDeckOwner(card.DeckID, userID); err != nil {
		return nil, err
	}
	return &card, nil
}

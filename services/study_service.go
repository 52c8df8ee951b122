package services

import (
	"errors"
	"fmt"
	"time"

	"flashdeck/apperrors"
	"flashdeck/models"
	"flashdeck/srs"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// How many times a review update is retried when it loses the version race
// against a concurrent review of the same card.
const maxReviewAttempts = 3

type StudyService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewStudyService(db *gorm.DB, log *zap.Logger) *StudyService {
	return &StudyService{
		db:  db,
		log: log,
		now: time.Now,
	}
}

// CardProgress is a review state enriched with the derived fields the study
// screens need.
type CardProgress struct {
	models.ReviewState
	Due        bool `json:"due"`
	Difficulty int  `json:"difficulty"` // 1 (easy) .. 5 (hard)
}

type StudyStats struct {
	TotalCards     int64   `json:"total_cards"`
	TotalReviews   int     `json:"total_reviews"`
	TotalCorrect   int     `json:"total_correct"`
	TotalIncorrect int     `json:"total_incorrect"`
	Accuracy       float64 `json:"accuracy"`
}

// RecordReview applies one recall score to the review state of
// (userID, cardID), creating the state on first review. The stored record is
// updated with a compare-and-swap on its version so that two concurrent
// reviews of the same card cannot lose an update; the loser re-reads and
// retries.
func (s *StudyService) RecordReview(userID, cardID, deckID string, score int) (*models.ReviewState, error) {
	if !srs.ValidScore(score) {
		return nil, fmt.Errorf("score %d: %w", score, apperrors.ErrInvalidScore)
	}

	var card models.Flashcard
	if err := s.db.Where("id = ? AND deck_id = ?", cardID, deckID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("flashcard %s in deck %s: %w", cardID, deckID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	for attempt := 0; attempt < maxReviewAttempts; attempt++ {
		state, found, err := s.loadState(userID, cardID)
		if err != nil {
			return nil, err
		}
		if !found {
			state = &models.ReviewState{
				ID:          uuid.NewString(),
				UserID:      userID,
				FlashcardID: cardID,
				DeckID:      deckID,
				EaseFactor:  srs.InitialEaseFactor,
				Interval:    srs.InitialInterval,
				Version:     1,
			}
		}

		now := s.now()
		out := srs.Review(srs.ReviewInput{
			Interval:           state.Interval,
			EaseFactor:         state.EaseFactor,
			CorrectCount:       state.CorrectCount,
			IncorrectCount:     state.IncorrectCount,
			ConsecutiveCorrect: state.ConsecutiveCorrect,
			Score:              score,
		}, now)

		state.CorrectCount = out.CorrectCount
		state.IncorrectCount = out.IncorrectCount
		state.ConsecutiveCorrect = out.ConsecutiveCorrect
		state.EaseFactor = out.EaseFactor
		state.Interval = out.Interval
		state.NextReviewDate = &out.NextReview
		state.LastReviewed = &now
		state.LastReviewScore = score

		var ok bool
		if !found {
			ok, err = s.insertState(state)
		} else {
			ok, err = s.updateState(state)
		}
		if err != nil {
			return nil, err
		}
		if !ok {
			// Lost the race, re-read and recompute.
			continue
		}

		s.log.Info("recorded review",
			zap.String("user_id", userID),
			zap.String("flashcard_id", cardID),
			zap.Int("score", score),
			zap.Int("interval_days", state.Interval),
			zap.Float64("ease_factor", state.EaseFactor))
		return state, nil
	}

	s.log.Warn("review update retries exhausted",
		zap.String("user_id", userID),
		zap.String("flashcard_id", cardID))
	return nil, fmt.Errorf("review state for flashcard %s: %w", cardID, apperrors.ErrConcurrentUpdate)
}

func (s *StudyService) loadState(userID, cardID string) (*models.ReviewState, bool, error) {
	var state models.ReviewState
	err := s.db.Where("user_id = ? AND flashcard_id = ?", userID, cardID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &state, true, nil
}

// insertState creates the first review state for a (user, card) pair. A
// duplicate-key error means a concurrent first review won; that is reported
// as ok=false so the caller retries against the stored row.
func (s *StudyService) insertState(state *models.ReviewState) (bool, error) {
	if err := s.db.Create(state).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// updateState writes the new state only if the row still carries the version
// that was read. Zero rows affected means a concurrent writer got there
// first.
func (s *StudyService) updateState(state *models.ReviewState) (bool, error) {
	res := s.db.Model(&models.ReviewState{}).
		Where("id = ? AND version = ?", state.ID, state.Version).
		Updates(map[string]interface{}{
			"correct_count":       state.CorrectCount,
			"incorrect_count":     state.IncorrectCount,
			"consecutive_correct": state.ConsecutiveCorrect,
			"ease_factor":         state.EaseFactor,
			"interval":            state.Interval,
			"next_review_date":    state.NextReviewDate,
			"last_reviewed":       state.LastReviewed,
			"last_review_score":   state.LastReviewScore,
			"version":             state.Version + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	state.Version++
	return true, nil
}

// DueCards returns the review states in a deck that are due for the user.
func (s *StudyService) DueCards(userID, deckID string) ([]models.ReviewState, error) {
	var states []models.ReviewState
	err := s.db.
		Where("user_id = ? AND deck_id = ?", userID, deckID).
		Where("next_review_date IS NULL OR next_review_date <= ?", s.now()).
		Order("next_review_date").
		Find(&states).Error
	return states, err
}

// DeckProgress returns every review state the user has in a deck, with the
// due flag and difficulty bucket derived for each.
func (s *StudyService) DeckProgress(userID, deckID string) ([]CardProgress, error) {
	var states []models.ReviewState
	err := s.db.
		Where("user_id = ? AND deck_id = ?", userID, deckID).
		Order("created_at").
		Find(&states).Error
	if err != nil {
		return nil, err
	}

	now := s.now()
	progress := make([]CardProgress, 0, len(states))
	for _, state := range states {
		progress = append(progress, CardProgress{
			ReviewState: state,
			Due:         srs.IsDue(state.NextReviewDate, now),
			Difficulty:  srs.DifficultyBucket(state.CorrectCount, state.IncorrectCount),
		})
	}
	return progress, nil
}

// Stats aggregates the user's review history across all decks.
func (s *StudyService) Stats(userID string) (*StudyStats, error) {
	var states []models.ReviewState
	if err := s.db.Where("user_id = ?", userID).Find(&states).Error; err != nil {
		return nil, err
	}

	var totalCards int64
	err := s.db.Model(&models.Flashcard{}).
		Joins("JOIN decks ON decks.id = flashcards.deck_id").
		Where("decks.user_id = ? AND decks.deleted_at IS NULL", userID).
		Count(&totalCards).Error
	if err != nil {
		return nil, err
	}

	stats := &StudyStats{TotalCards: totalCards}
	for _, state := range states {
		stats.TotalCorrect += state.CorrectCount
		stats.TotalIncorrect += state.IncorrectCount
	}
	stats.TotalReviews = stats.TotalCorrect + stats.TotalIncorrect
	if stats.TotalReviews > 0 {
		stats.Accuracy = float64(stats.TotalCorrect) / float64(stats.TotalReviews)
	}
	return stats, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"flashdeck/apperrors"
	"flashdeck/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	optionsPerQuestion = 4
	maxDistractors     = optionsPerQuestion - 1

	// Placeholder option used when a deck has too few distinct answers.
	placeholderOption = "None of the above"

	quizCacheTTL = time.Hour
)

type QuizService struct {
	db    *gorm.DB
	redis *redis.Client
	log   *zap.Logger
	rng   *rand.Rand
	now   func() time.Time
}

func NewQuizService(db *gorm.DB, redisClient *redis.Client, log *zap.Logger) *QuizService {
	return &QuizService{
		db:    db,
		redis: redisClient,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// CreateQuiz generates a multiple-choice quiz from the flashcards of an
// owned deck. questionCount is a hint: the quiz holds
// min(questionCount, deck size) questions, one per card, never repeating a
// card. Each question gets the card's answer plus up to three distractors
// drawn from the other answers in the deck, padded with a placeholder when
// the deck has too few distinct answers.
func (s *QuizService) CreateQuiz(ctx context.Context, deckID, userID string, questionCount int) (*models.Quiz, error) {
	if questionCount < 1 {
		return nil, fmt.Errorf("question count %d: %w", questionCount, apperrors.ErrInvalidQuestionCount)
	}

	var deck models.Deck
	if err := s.db.Where("id = ? AND user_id = ?", deckID, userID).First(&deck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("deck %s: %w", deckID, apperrors.ErrNotFound)
		}
		return nil, err
	}

	var cards []models.Flashcard
	if err := s.db.Where("deck_id = ?", deckID).Find(&cards).Error; err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("deck %s: %w", deckID, apperrors.ErrEmptyDeck)
	}

	s.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	n := questionCount
	if n > len(cards) {
		n = len(cards)
	}

	questions := make([]models.QuizQuestion, 0, n)
	for i, card := range cards[:n] {
		q, err := s.buildQuestion(card, cards, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	quiz := models.Quiz{
		ID:             uuid.NewString(),
		DeckID:         deckID,
		UserID:         userID,
		Title:          "Quiz on " + deck.Name,
		TotalQuestions: n,
		Status:         models.QuizStatusInProgress,
		StartedAt:      s.now(),
		Questions:      questions,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Omit("Questions").Create(&quiz).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range quiz.Questions {
		quiz.Questions[i].QuizID = quiz.ID
		if err := tx.Create(&quiz.Questions[i]).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.cacheQuiz(ctx, &quiz)
	s.log.Info("created quiz",
		zap.String("quiz_id", quiz.ID),
		zap.String("deck_id", deckID),
		zap.Int("questions", n))
	return &quiz, nil
}

// buildQuestion assembles one question for a card. The correct option's slot
// is tracked through the shuffle by index, not recovered by text comparison,
// so decks with duplicate answer texts still get a correct index.
func (s *QuizService) buildQuestion(card models.Flashcard, pool []models.Flashcard, position int) (models.QuizQuestion, error) {
	seen := map[string]struct{}{card.Back: {}}
	distractors := make([]string, 0, len(pool))
	for _, other := range pool {
		if other.ID == card.ID {
			continue
		}
		if _, dup := seen[other.Back]; dup {
			continue
		}
		seen[other.Back] = struct{}{}
		distractors = append(distractors, other.Back)
	}

	s.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if len(distractors) > maxDistractors {
		distractors = distractors[:maxDistractors]
	}

	options := append([]string{card.Back}, distractors...)
	for len(options) < optionsPerQuestion {
		options = append(options, placeholderOption)
	}

	correct := 0
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
		switch correct {
		case i:
			correct = j
		case j:
			correct = i
		}
	})

	raw, err := json.Marshal(options)
	if err != nil {
		return models.QuizQuestion{}, err
	}

	return models.QuizQuestion{
		ID:                  uuid.NewString(),
		QuestionID:          card.ID,
		Question:            card.Front,
		Position:            position,
		Options:             datatypes.JSON(raw),
		CorrectOptionIndex:  correct,
		SelectedOptionIndex: -1,
	}, nil
}

// SubmitQuiz grades the quiz against the submitted answers, keyed by source
// flashcard ID. Questions missing from the map stay unanswered and count as
// incorrect, even when an earlier submission answered them correctly.
// Resubmitting a completed quiz re-grades it and overwrites the previous
// result.
func (s *QuizService) SubmitQuiz(ctx context.Context, quizID string, answers map[string]int) (*models.Quiz, error) {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.TotalQuestions == 0 || len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("quiz %s: %w", quizID, apperrors.ErrZeroQuestions)
	}

	correct := 0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		selected, ok := answers[q.QuestionID]
		if !ok {
			// Unanswered this time: keep the stored selection but score it
			// as incorrect, regardless of any earlier grading.
			q.IsCorrect = false
			continue
		}
		count, err := s.optionCount(q)
		if err != nil {
			return nil, err
		}
		if selected < 0 || selected >= count {
			return nil, fmt.Errorf("question %s: option index %d: %w",
				q.QuestionID, selected, apperrors.ErrInvalidAnswer)
		}
		q.SelectedOptionIndex = selected
		q.IsCorrect = selected == q.CorrectOptionIndex
		if q.IsCorrect {
			correct++
		}
	}

	now := s.now()
	quiz.CorrectAnswers = correct
	quiz.Score = int(math.Round(float64(correct) / float64(quiz.TotalQuestions) * 100))
	quiz.CompletedAt = &now
	quiz.Status = models.QuizStatusCompleted

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	err = tx.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Updates(map[string]interface{}{
		"correct_answers": quiz.CorrectAnswers,
		"score":           quiz.Score,
		"completed_at":    quiz.CompletedAt,
		"status":          quiz.Status,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	for i := range quiz.Questions {
		q := quiz.Questions[i]
		err = tx.Model(&models.QuizQuestion{}).Where("id = ?", q.ID).Updates(map[string]interface{}{
			"selected_option_index": q.SelectedOptionIndex,
			"is_correct":            q.IsCorrect,
		}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.cacheQuiz(ctx, quiz)
	s.log.Info("graded quiz",
		zap.String("quiz_id", quiz.ID),
		zap.Int("correct", correct),
		zap.Int("score", quiz.Score))
	return quiz, nil
}

func (s *QuizService) optionCount(q *models.QuizQuestion) (int, error) {
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return 0, fmt.Errorf("question %s: corrupt options: %w", q.ID, err)
	}
	return len(options), nil
}

// GetQuiz returns a quiz by ID, preferring the cached snapshot.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	if quiz := s.cachedQuiz(ctx, quizID); quiz != nil {
		return quiz, nil
	}

	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return nil, err
	}
	s.cacheQuiz(ctx, quiz)
	return quiz, nil
}

func (s *QuizService) loadQuiz(quizID string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.db.Where("id = ?", quizID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("quiz %s: %w", quizID, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// UserHistory returns the user's quizzes, most recent first.
func (s *QuizService) UserHistory(userID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("user_id = ?", userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		Order("started_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// DeckHistory returns the user's quizzes for one deck, most recent first.
func (s *QuizService) DeckHistory(deckID, userID string) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	err := s.db.Where("deck_id = ? AND user_id = ?", deckID, userID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.position")
		}).
		Order("started_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// DeleteQuiz removes a quiz and its questions. Only the quiz owner may
// delete it.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID, userID string) error {
	quiz, err := s.loadQuiz(quizID)
	if err != nil {
		return err
	}
	if quiz.UserID != userID {
		return fmt.Errorf("quiz %s: %w", quizID, apperrors.ErrNotOwner)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("quiz_id = ?", quizID).Delete(&models.QuizQuestion{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Quiz{}, "id = ?", quizID).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.dropCachedQuiz(ctx, quizID)
	return nil
}

// Redis is a read-through cache for quiz snapshots; postgres stays the
// source of truth, so cache failures are logged and ignored.

func (s *QuizService) cacheQuiz(ctx context.Context, quiz *models.Quiz) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		s.log.Warn("failed to marshal quiz for cache", zap.String("quiz_id", quiz.ID), zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, quizCacheKey(quiz.ID), data, quizCacheTTL).Err(); err != nil {
		s.log.Warn("failed to cache quiz", zap.String("quiz_id", quiz.ID), zap.Error(err))
	}
}

func (s *QuizService) cachedQuiz(ctx context.Context, quizID string) *models.Quiz {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, quizCacheKey(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("failed to read quiz cache", zap.String("quiz_id", quizID), zap.Error(err))
		}
		return nil
	}
	var quiz models.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		s.log.Warn("corrupt quiz cache entry", zap.String("quiz_id", quizID), zap.Error(err))
		return nil
	}
	return &quiz
}

func (s *QuizService) dropCachedQuiz(ctx context.Context, quizID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, quizCacheKey(quizID)).Err(); err != nil {
		s.log.Warn("failed to drop quiz cache entry", zap.String("quiz_id", quizID), zap.Error(err))
	}
}

func quizCacheKey(quizID string) string {
	return "quiz:" + quizID
}

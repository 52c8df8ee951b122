package services

import (
	"fmt"
	"testing"
	"time"

	"flashdeck/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second connection would see an empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Deck{},
		&models.Flashcard{},
		&models.ReviewState{},
		&models.Quiz{},
		&models.QuizQuestion{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedDeck creates a deck with n flashcards ("question i" / "answer i") and
// returns the deck with its cards loaded.
func seedDeck(t *testing.T, db *gorm.DB, userID string, n int) *models.Deck {
	t.Helper()

	deck := models.Deck{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   "Test Deck",
	}
	if err := db.Create(&deck).Error; err != nil {
		t.Fatalf("create deck: %v", err)
	}

	for i := 0; i < n; i++ {
		card := models.Flashcard{
			ID:         uuid.NewString(),
			DeckID:     deck.ID,
			Front:      fmt.Sprintf("question %d", i),
			Back:       fmt.Sprintf("answer %d", i),
			OrderIndex: i,
		}
		if err := db.Create(&card).Error; err != nil {
			t.Fatalf("create flashcard: %v", err)
		}
		deck.Flashcards = append(deck.Flashcards, card)
	}
	return &deck
}

func newTestStudyService(db *gorm.DB) *StudyService {
	svc := NewStudyService(db, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

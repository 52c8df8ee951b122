package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"flashdeck/apperrors"
	"flashdeck/models"
)

func TestRecordReviewFreshCard(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 1)
	card := deck.Flashcards[0]

	state, err := svc.RecordReview("user-1", card.ID, deck.ID, 5)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}

	if state.CorrectCount != 1 || state.IncorrectCount != 0 || state.ConsecutiveCorrect != 1 {
		t.Errorf("counters = (%d, %d, %d), want (1, 0, 1)",
			state.CorrectCount, state.IncorrectCount, state.ConsecutiveCorrect)
	}
	if state.Interval != 6 {
		t.Errorf("Interval = %d, want 6", state.Interval)
	}
	if math.Abs(state.EaseFactor-2.6) > 1e-9 {
		t.Errorf("EaseFactor = %f, want 2.6", state.EaseFactor)
	}
	if state.LastReviewScore != 5 {
		t.Errorf("LastReviewScore = %d, want 5", state.LastReviewScore)
	}
	if want := testNow.AddDate(0, 0, 6); !state.NextReviewDate.Equal(want) {
		t.Errorf("NextReviewDate = %v, want %v", state.NextReviewDate, want)
	}
	if state.Version != 1 {
		t.Errorf("Version = %d, want 1", state.Version)
	}

	// The state must be persisted, not just returned.
	var stored models.ReviewState
	if err := db.Where("user_id = ? AND flashcard_id = ?", "user-1", card.ID).First(&stored).Error; err != nil {
		t.Fatalf("stored state: %v", err)
	}
	if stored.Interval != 6 {
		t.Errorf("stored Interval = %d, want 6", stored.Interval)
	}
}

func TestRecordReviewInvalidScore(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 1)

	for _, score := range []int{-1, 6} {
		_, err := svc.RecordReview("user-1", deck.Flashcards[0].ID, deck.ID, score)
		if !errors.Is(err, apperrors.ErrInvalidScore) {
			t.Errorf("score %d: err = %v, want ErrInvalidScore", score, err)
		}
	}

	var count int64
	db.Model(&models.ReviewState{}).Count(&count)
	if count != 0 {
		t.Errorf("review states persisted after invalid score: %d", count)
	}
}

func TestRecordReviewUnknownCard(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 1)

	_, err := svc.RecordReview("user-1", "no-such-card", deck.ID, 4)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordReviewFailureResets(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 1)
	card := deck.Flashcards[0]

	if _, err := svc.RecordReview("user-1", card.ID, deck.ID, 5); err != nil {
		t.Fatalf("first review: %v", err)
	}
	state, err := svc.RecordReview("user-1", card.ID, deck.ID, 2)
	if err != nil {
		t.Fatalf("second review: %v", err)
	}

	if state.Interval != 1 {
		t.Errorf("Interval = %d, want 1 after failure", state.Interval)
	}
	if state.ConsecutiveCorrect != 0 {
		t.Errorf("ConsecutiveCorrect = %d, want 0", state.ConsecutiveCorrect)
	}
	if state.CorrectCount != 1 || state.IncorrectCount != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", state.CorrectCount, state.IncorrectCount)
	}
	if state.Version != 2 {
		t.Errorf("Version = %d, want 2", state.Version)
	}
}

func TestRecordReviewIntervalGrowth(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 1)
	card := deck.Flashcards[0]

	// Three perfect recalls: 6, round(6*2.7)=16, round(16*2.8)=45.
	want := []int{6, 16, 45}
	for i, w := range want {
		state, err := svc.RecordReview("user-1", card.ID, deck.ID, 5)
		if err != nil {
			t.Fatalf("review %d: %v", i, err)
		}
		if state.Interval != w {
			t.Errorf("review %d: Interval = %d, want %d", i, state.Interval, w)
		}
	}
}

func TestUpdateStateStaleVersion(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 1)
	card := deck.Flashcards[0]

	state, err := svc.RecordReview("user-1", card.ID, deck.ID, 4)
	if err != nil {
		t.Fatalf("RecordReview: %v", err)
	}

	// Another writer bumped the version after our read.
	err = db.Model(&models.ReviewState{}).Where("id = ?", state.ID).
		Update("version", state.Version+1).Error
	if err != nil {
		t.Fatalf("bump version: %v", err)
	}

	ok, err := svc.updateState(state)
	if err != nil {
		t.Fatalf("updateState: %v", err)
	}
	if ok {
		t.Error("updateState succeeded with a stale version")
	}
}

func TestDueCards(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 3)

	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)
	states := []models.ReviewState{
		{ID: "s1", UserID: "user-1", FlashcardID: deck.Flashcards[0].ID, DeckID: deck.ID, NextReviewDate: &past, EaseFactor: 2.5, Interval: 1, Version: 1},
		{ID: "s2", UserID: "user-1", FlashcardID: deck.Flashcards[1].ID, DeckID: deck.ID, NextReviewDate: &future, EaseFactor: 2.5, Interval: 1, Version: 1},
		{ID: "s3", UserID: "user-1", FlashcardID: deck.Flashcards[2].ID, DeckID: deck.ID, NextReviewDate: nil, EaseFactor: 2.5, Interval: 1, Version: 1},
	}
	for _, s := range states {
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("seed state: %v", err)
		}
	}

	due, err := svc.DueCards("user-1", deck.ID)
	if err != nil {
		t.Fatalf("DueCards: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("len(due) = %d, want 2 (past and never-scheduled)", len(due))
	}
	for _, s := range due {
		if s.ID == "s2" {
			t.Error("future-dated state reported as due")
		}
	}
}

func TestDeckProgressDerivedFields(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 2)

	future := testNow.Add(time.Hour)
	states := []models.ReviewState{
		{ID: "p1", UserID: "user-1", FlashcardID: deck.Flashcards[0].ID, DeckID: deck.ID,
			CorrectCount: 9, IncorrectCount: 1, NextReviewDate: &future, EaseFactor: 2.5, Interval: 6, Version: 1},
		{ID: "p2", UserID: "user-1", FlashcardID: deck.Flashcards[1].ID, DeckID: deck.ID,
			CorrectCount: 1, IncorrectCount: 9, NextReviewDate: nil, EaseFactor: 1.3, Interval: 1, Version: 1},
	}
	for _, s := range states {
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("seed state: %v", err)
		}
	}

	progress, err := svc.DeckProgress("user-1", deck.ID)
	if err != nil {
		t.Fatalf("DeckProgress: %v", err)
	}
	if len(progress) != 2 {
		t.Fatalf("len(progress) = %d, want 2", len(progress))
	}

	byID := map[string]CardProgress{}
	for _, p := range progress {
		byID[p.ID] = p
	}
	if p := byID["p1"]; p.Due || p.Difficulty != 1 {
		t.Errorf("p1: due=%v difficulty=%d, want due=false difficulty=1", p.Due, p.Difficulty)
	}
	if p := byID["p2"]; !p.Due || p.Difficulty != 5 {
		t.Errorf("p2: due=%v difficulty=%d, want due=true difficulty=5", p.Due, p.Difficulty)
	}
}

func TestStudyStats(t *testing.T) {
	db := newTestDB(t)
	svc := newTestStudyService(db)
	deck := seedDeck(t, db, "user-1", 4)

	for _, score := range []int{5, 5, 1} {
		if _, err := svc.RecordReview("user-1", deck.Flashcards[0].ID, deck.ID, score); err != nil {
			t.Fatalf("RecordReview: %v", err)
		}
	}
	if _, err := svc.RecordReview("user-1", deck.Flashcards[1].ID, deck.ID, 4); err != nil {
		t.Fatalf("RecordReview: %v", err)
	}

	stats, err := svc.Stats("user-1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalCards != 4 {
		t.Errorf("TotalCards = %d, want 4", stats.TotalCards)
	}
	if stats.TotalCorrect != 3 || stats.TotalIncorrect != 1 || stats.TotalReviews != 4 {
		t.Errorf("reviews = (%d correct, %d incorrect, %d total), want (3, 1, 4)",
			stats.TotalCorrect, stats.TotalIncorrect, stats.TotalReviews)
	}
	if math.Abs(stats.Accuracy-0.75) > 1e-9 {
		t.Errorf("Accuracy = %f, want 0.75", stats.Accuracy)
	}
}

// Package srs implements the SM-2 spaced-repetition update applied after
// every card review. The functions here are pure; loading and storing the
// per-user review record is the caller's job.
package srs

import (
	"math"
	"time"
)

const (
	InitialEaseFactor = 2.5
	MinEaseFactor     = 1.3
	InitialInterval   = 1

	MinScore = 0
	MaxScore = 5

	// A recall score of 3 or better counts as a successful review.
	passThreshold = 3

	// Interval after the first successful review of a card.
	firstPassInterval = 6
)

// ReviewInput is the scheduling state of one (user, card) pair before a
// review, plus the recall score the user reported.
type ReviewInput struct {
	Interval           int
	EaseFactor         float64
	CorrectCount       int
	IncorrectCount     int
	ConsecutiveCorrect int
	Score              int // 0 = blackout, 5 = perfect recall
}

// ReviewOutput is the state after applying the review at time now.
type ReviewOutput struct {
	Interval           int
	EaseFactor         float64
	CorrectCount       int
	IncorrectCount     int
	ConsecutiveCorrect int
	NextReview         time.Time
}

// ValidScore reports whether s is a usable recall score.
func ValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}

// Review applies one review to the given state. Score must already be
// validated with ValidScore.
//
// The ease factor is adjusted on every review, pass or fail, from the
// pre-review value. The interval resets to 1 on failure, graduates from 1
// to 6 on the first success, and otherwise grows by the updated ease factor.
func Review(in ReviewInput, now time.Time) ReviewOutput {
	out := ReviewOutput{
		CorrectCount:       in.CorrectCount,
		IncorrectCount:     in.IncorrectCount,
		ConsecutiveCorrect: in.ConsecutiveCorrect,
	}

	if in.Score >= passThreshold {
		out.CorrectCount++
		out.ConsecutiveCorrect++
	} else {
		out.IncorrectCount++
		out.ConsecutiveCorrect = 0
	}

	// EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02)), floored at 1.3.
	q := float64(in.Score)
	ef := in.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ef < MinEaseFactor {
		ef = MinEaseFactor
	}
	out.EaseFactor = ef

	interval := in.Interval
	if interval < InitialInterval {
		interval = InitialInterval
	}
	switch {
	case in.Score < passThreshold:
		out.Interval = InitialInterval
	case interval == InitialInterval:
		out.Interval = firstPassInterval
	default:
		out.Interval = int(math.Round(float64(interval) * ef))
	}

	out.NextReview = now.AddDate(0, 0, out.Interval)
	return out
}

// IsDue reports whether a card with the given next-review timestamp should
// be studied at time now. A nil timestamp means the card was never scheduled
// and is due immediately.
func IsDue(nextReview *time.Time, now time.Time) bool {
	return nextReview == nil || !nextReview.After(now)
}

// DifficultyBucket maps historical accuracy to a 1 (easy) to 5 (hard)
// difficulty level. A card with no reviews is bucket 1.
func DifficultyBucket(correctCount, incorrectCount int) int {
	total := correctCount + incorrectCount
	if total == 0 {
		return 1
	}
	accuracy := float64(correctCount) / float64(total)
	switch {
	case accuracy >= 0.9:
		return 1
	case accuracy >= 0.7:
		return 2
	case accuracy >= 0.5:
		return 3
	case accuracy >= 0.3:
		return 4
	default:
		return 5
	}
}

package apperrors

import "errors"

// Sentinel errors for the flashdeck core.
// Use errors.Is to check: errors.Is(err, apperrors.ErrNotFound)
var (
	// Validation failures.
	ErrInvalidScore         = errors.New("flashdeck: review score out of range [0,5]")
	ErrInvalidQuestionCount = errors.New("flashdeck: requested question count must be positive")
	ErrInvalidAnswer        = errors.New("flashdeck: selected option index out of range")

	// Existence and ownership.
	ErrNotFound = errors.New("flashdeck: resource not found")
	ErrNotOwner = errors.New("flashdeck: resource belongs to another user")

	// Quiz preconditions.
	ErrEmptyDeck     = errors.New("flashdeck: deck has no flashcards")
	ErrZeroQuestions = errors.New("flashdeck: quiz has no questions to grade")

	// Concurrency.
	ErrConcurrentUpdate = errors.New("flashdeck: record modified concurrently, retries exhausted")

	// Auth.
	ErrEmailTaken         = errors.New("flashdeck: email already registered")
	ErrInvalidCredentials = errors.New("flashdeck: invalid email or password")
)
